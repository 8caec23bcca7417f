package realtime

import (
	"sync"

	pkgredis "github.com/impactflow/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	RoomAdmin  = "admin"
	RoomPublic = "public"

	namespaceAdmin = "/admin"
	namespaceWeb   = "/web"

	redisChanAdmin  = "if:gateway:admin"
	redisChanPublic = "if:gateway:public"
)

// Events pushed to connected clients.
const (
	EventDonationCreated     = "DONATION_CREATE"
	EventMessageCreated      = "MESSAGE_CREATE"
	EventProjectUpdated      = "PROJECT_UPDATE"
	EventCampaignUpdated     = "CAMPAIGN_UPDATE"
	EventNewsUpdated         = "NEWS_UPDATE"
	EventSettingsUpdated     = "SETTINGS_UPDATE"
	EventPaymentMethodUpdate = "PAYMENT_METHOD_UPDATE"
	EventNotification        = "NOTIFICATION"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

type wirePayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid  string
	room string
}

// Hub manages socket.io namespaces and cluster fan-out.
type Hub struct {
	mu sync.RWMutex

	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	rc     *pkgredis.Client
	logger *zap.Logger
	sio    *socketio.Server
}
