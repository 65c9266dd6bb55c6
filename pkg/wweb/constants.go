package wweb

// MessageType is the raw "type" tag of a message.
type MessageType string

// Message types reported by the runtime.
const (
	MessageTypeText                   MessageType = "chat"
	MessageTypeAudio                  MessageType = "audio"
	MessageTypeVoice                  MessageType = "ptt"
	MessageTypeImage                  MessageType = "image"
	MessageTypeAlbum                  MessageType = "album"
	MessageTypeVideo                  MessageType = "video"
	MessageTypeDocument               MessageType = "document"
	MessageTypeSticker                MessageType = "sticker"
	MessageTypeLocation               MessageType = "location"
	MessageTypeContactCard            MessageType = "vcard"
	MessageTypeContactCardMulti       MessageType = "multi_vcard"
	MessageTypeOrder                  MessageType = "order"
	MessageTypeRevoked                MessageType = "revoked"
	MessageTypeProduct                MessageType = "product"
	MessageTypeUnknown                MessageType = "unknown"
	MessageTypeGroupInvite            MessageType = "groups_v4_invite"
	MessageTypeList                   MessageType = "list"
	MessageTypeListResponse           MessageType = "list_response"
	MessageTypeButtonsResponse        MessageType = "buttons_response"
	MessageTypePayment                MessageType = "payment"
	MessageTypeBroadcastNotification  MessageType = "broadcast_notification"
	MessageTypeCallLog                MessageType = "call_log"
	MessageTypeCiphertext             MessageType = "ciphertext"
	MessageTypeDebug                  MessageType = "debug"
	MessageTypeE2ENotification        MessageType = "e2e_notification"
	MessageTypeGP2                    MessageType = "gp2"
	MessageTypeGroupNotification      MessageType = "group_notification"
	MessageTypeHSM                    MessageType = "hsm"
	MessageTypeInteractive            MessageType = "interactive"
	MessageTypeNativeFlow             MessageType = "native_flow"
	MessageTypeNotification           MessageType = "notification"
	MessageTypeNotificationTemplate   MessageType = "notification_template"
	MessageTypeOversized              MessageType = "oversized"
	MessageTypeProtocol               MessageType = "protocol"
	MessageTypeReaction               MessageType = "reaction"
	MessageTypeTemplateButtonReply    MessageType = "template_button_reply"
	MessageTypePollCreation           MessageType = "poll_creation"
	MessageTypeScheduledEventCreation MessageType = "scheduled_event_creation"
)

// MessageAck is the delivery state of a message.
type MessageAck int

const (
	AckError   MessageAck = -1
	AckPending MessageAck = 0
	AckServer  MessageAck = 1
	AckDevice  MessageAck = 2
	AckRead    MessageAck = 3
	AckPlayed  MessageAck = 4
)

// GroupNotificationType is the subtype of a group notification.
type GroupNotificationType string

const (
	GroupNotificationAdd         GroupNotificationType = "add"
	GroupNotificationInvite      GroupNotificationType = "invite"
	GroupNotificationRemove      GroupNotificationType = "remove"
	GroupNotificationLeave       GroupNotificationType = "leave"
	GroupNotificationSubject     GroupNotificationType = "subject"
	GroupNotificationDescription GroupNotificationType = "description"
	GroupNotificationPicture     GroupNotificationType = "picture"
	GroupNotificationAnnounce    GroupNotificationType = "announce"
	GroupNotificationRestrict    GroupNotificationType = "restrict"
)

// Device types inferred from the shape of a message key.
const (
	DeviceAndroid = "android"
	DeviceIOS     = "ios"
	DeviceWeb     = "web"
)

// ChatState is a presence state shown to the other side of a chat.
type ChatState string

const (
	ChatStateTyping    ChatState = "typing"
	ChatStateRecording ChatState = "recording"
	ChatStateStop      ChatState = "stop"
)
