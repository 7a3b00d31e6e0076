package apierrors

const (
	MsgFailListTask       = "errorListTask"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidChannelID   = "invalidChannelID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgTaskNotFound       = "taskNotFound"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailCompleteTask   = "failCompleteTask"
)
