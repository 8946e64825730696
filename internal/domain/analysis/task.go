package analysis

// TaskType enum
type TaskType string

const (
	TaskSummarize TaskType = "summarize"
	TaskEntities  TaskType = "entities"
	TaskSentiment TaskType = "sentiment"
)

// ValidTaskTypes returns every supported task type.
func ValidTaskTypes() []TaskType {
	return []TaskType{TaskSummarize, TaskEntities, TaskSentiment}
}

// Valid reports whether t names a supported task.
func (t TaskType) Valid() bool {
	switch t {
	case TaskSummarize, TaskEntities, TaskSentiment:
		return true
	}
	return false
}
