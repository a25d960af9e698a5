package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService issues Vivox access tokens so a seated player can talk at the
// table voice channel.
type VoiceService struct {
	secret string
	issuer string
	domain string
	ttl    time.Duration
}

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"

	// tableChannelPrefix namespaces table channels so voice rooms cannot
	// collide with other channel kinds.
	tableChannelPrefix = "table-"

	defaultVoiceTokenTTL = time.Hour
)

// NewVoiceService constructs a VoiceService. ttl <= 0 uses the default.
func NewVoiceService(secret, issuer, domain string, ttl time.Duration) *VoiceService {
	if ttl <= 0 {
		ttl = defaultVoiceTokenTTL
	}
	return &VoiceService{secret: secret, issuer: issuer, domain: domain, ttl: ttl}
}

// TableChannel returns the voice channel name for a table match.
func TableChannel(matchID string) string {
	return tableChannelPrefix + matchID
}

// GenerateToken signs a Vivox claim set for the given user and action. Join
// tokens additionally require the channel name.
func (s *VoiceService) GenerateToken(user, action, channelName string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, channelName, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) channelURI(channelName string) string {
	return "sip:confctl-g-" + channelName + "@" + s.domain
}

func (s *VoiceService) targetURI(action, channelName, userURI string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return userURI, nil
	case VoiceTokenActionJoin:
		if channelName == "" {
			return "", fmt.Errorf("channel name is required for join tokens")
		}
		return s.channelURI(channelName), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
