package tasklist

// Channel ids of a task-list thing.
const (
	ChannelID                   = "todoTaskListId"
	ChannelDisplayName          = "todoTaskListDisplayName"
	ChannelIsOwner              = "todoTaskListIsOwner"
	ChannelIsShared             = "todoTaskListIsShared"
	ChannelWellknownListName    = "todoTaskListWellknownListName"
	ChannelNextDueDateTime      = "nextDueDateTime"
	ChannelTaskCount            = "noTodoTasks"
	ChannelCompletedTaskCount   = "noCompletedTodoTasks"
	ChannelOpenTaskCount        = "noOpenTodoTasks"
	ChannelTasksString          = "todoTasksString"
	ChannelCompletedTasksString = "completedTodoTasksString"
	ChannelOpenTasksString      = "openTodoTasksString"

	// Selector channels carrying dynamic option sets.
	ChannelTasks          = "todoTasks"
	ChannelCompletedTasks = "completedTodoTasks"
	ChannelOpenTasks      = "openTodoTasks"
)

// AllChannels lists every channel a task-list thing publishes.
var AllChannels = []string{
	ChannelID,
	ChannelDisplayName,
	ChannelIsOwner,
	ChannelIsShared,
	ChannelWellknownListName,
	ChannelNextDueDateTime,
	ChannelTaskCount,
	ChannelCompletedTaskCount,
	ChannelOpenTaskCount,
	ChannelTasksString,
	ChannelCompletedTasksString,
	ChannelOpenTasksString,
	ChannelTasks,
	ChannelCompletedTasks,
	ChannelOpenTasks,
}

// ChannelKey builds the provider-wide key of one thing's channel, in the
// thingID:channelID form.
func ChannelKey(thingID, channelID string) string {
	return thingID + ":" + channelID
}
