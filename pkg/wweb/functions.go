package wweb

// Browser-side function names understood by the runtime.
const (
	fnGetChat              = "getChat"
	fnGetChats             = "getChats"
	fnGetContact           = "getContact"
	fnGetContacts          = "getContacts"
	fnGetMessage           = "getMessageModel"
	fnGetQuotedMessage     = "getQuotedMessage"
	fnGetLabels            = "getLabels"
	fnGetLabel             = "getLabel"
	fnGetChatLabels        = "getChatLabels"
	fnGetChatsByLabel      = "getChatsByLabelId"
	fnAddOrRemoveLabels    = "addOrRemoveLabels"
	fnGetClientInfo        = "getClientInfo"
	fnGetBatteryStatus     = "getBatteryStatus"
	fnGetBroadcasts        = "getBroadcasts"
	fnSendMessage          = "sendMessage"
	fnSendSeen             = "sendSeen"
	fnClearChat            = "sendClearChat"
	fnDeleteChat           = "sendDeleteChat"
	fnArchiveChat          = "archiveChat"
	fnPinChat              = "pinChat"
	fnMuteChat             = "muteChat"
	fnUnmuteChat           = "unmuteChat"
	fnMarkChatUnread       = "markChatUnread"
	fnFetchMessages        = "fetchMessages"
	fnSendChatState        = "sendChatState"
	fnGetPinnedMessages    = "getPinnedMessages"
	fnSyncHistory          = "syncHistory"
	fnReactToMessage       = "sendReaction"
	fnForwardMessage       = "forwardMessage"
	fnDownloadMedia        = "downloadMedia"
	fnDeleteMessage        = "deleteMessage"
	fnStarMessage          = "starMessage"
	fnPinMessage           = "pinUnpinMsgAction"
	fnGetMessageInfo       = "getMessageInfo"
	fnGetOrderDetail       = "getOrderDetail"
	fnGetPaymentMessage    = "getPaymentMessage"
	fnGetReactions         = "getReactions"
	fnEditMessage          = "editMessage"
	fnEditScheduledEvent   = "editScheduledEvent"
	fnAcceptGroupV4Invite  = "acceptGroupV4Invite"
	fnAddParticipants      = "addParticipants"
	fnRemoveParticipants   = "removeParticipants"
	fnPromoteParticipants  = "promoteParticipants"
	fnDemoteParticipants   = "demoteParticipants"
	fnSetGroupSubject      = "setGroupSubject"
	fnSetGroupDescription  = "setGroupDescription"
	fnSetGroupMemberAdd    = "setGroupMemberAddMode"
	fnSetGroupAnnounce     = "setGroupAnnouncement"
	fnSetGroupRestrict     = "setGroupRestrict"
	fnDeletePicture        = "deletePicture"
	fnSetPicture           = "setPicture"
	fnGetInviteCode        = "getInviteCode"
	fnRevokeInvite         = "revokeInvite"
	fnMembershipRequests   = "getGroupMembershipRequests"
	fnMembershipAction     = "membershipRequestAction"
	fnLeaveGroup           = "leaveGroup"
	fnGetSubscribers       = "getChannelSubscribers"
	fnSetChannelMetadata   = "setChannelMetadata"
	fnMuteUnmuteChannel    = "muteUnmuteChannel"
	fnChannelAdminInvite   = "sendChannelAdminInvite"
	fnAcceptAdminInvite    = "acceptChannelAdminInvite"
	fnRevokeAdminInvite    = "revokeChannelAdminInvite"
	fnDemoteChannelAdmin   = "demoteChannelAdmin"
	fnTransferOwnership    = "transferChannelOwnership"
	fnFetchChannelMessages = "fetchChannelMessages"
	fnDeleteChannel        = "deleteChannel"
	fnGetProfilePicURL     = "getProfilePicUrl"
	fnGetFormattedNumber   = "getFormattedNumber"
	fnGetCountryCode       = "getCountryCode"
	fnBlockContact         = "blockContact"
	fnUnblockContact       = "unblockContact"
	fnGetAbout             = "getContactStatus"
	fnGetCommonGroups      = "getCommonGroups"
	fnRejectCall           = "rejectCall"
	fnGetProductMetadata   = "getProductMetadata"
	fnFetchMediaFromURL    = "fetchMediaFromUrl"
	fnToStickerData        = "toStickerData"
	fnInterface            = "interfaceController"
)

// readOnlyFunctions may be repeated safely. Every other function changes
// state in the runtime and is evaluated once.
var readOnlyFunctions = map[string]bool{
	fnGetChat:              true,
	fnGetChats:             true,
	fnGetContact:           true,
	fnGetContacts:          true,
	fnGetMessage:           true,
	fnGetQuotedMessage:     true,
	fnGetLabels:            true,
	fnGetLabel:             true,
	fnGetChatLabels:        true,
	fnGetChatsByLabel:      true,
	fnGetClientInfo:        true,
	fnGetBatteryStatus:     true,
	fnGetBroadcasts:        true,
	fnFetchMessages:        true,
	fnGetPinnedMessages:    true,
	fnDownloadMedia:        true,
	fnGetMessageInfo:       true,
	fnGetOrderDetail:       true,
	fnGetPaymentMessage:    true,
	fnGetReactions:         true,
	fnGetInviteCode:        true,
	fnMembershipRequests:   true,
	fnGetSubscribers:       true,
	fnFetchChannelMessages: true,
	fnGetProfilePicURL:     true,
	fnGetFormattedNumber:   true,
	fnGetCountryCode:       true,
	fnGetAbout:             true,
	fnGetCommonGroups:      true,
	fnGetProductMetadata:   true,
	fnFetchMediaFromURL:    true,
	fnToStickerData:        true,
}
