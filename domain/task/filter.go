package task

// View selects one of the two task list perspectives of a signed-in user.
type View string

const (
	ViewAll          View = ""
	ViewAssignedToMe View = "assigned_to_me"
	ViewAssignedByMe View = "assigned_by_me"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewAll, ViewAssignedToMe, ViewAssignedByMe:
		return true
	}
	return false
}

// AssignedToMe returns the tasks whose assignee set contains a user with the given email.
func AssignedToMe(tasks []Task, myEmail string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		for _, a := range t.Assignees {
			if a.Email == myEmail {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// AssignedByMe returns the tasks created by the user with the given email.
// A self-assigned task shows up here and in AssignedToMe.
func AssignedByMe(tasks []Task, myEmail string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Creator.Email == myEmail {
			out = append(out, t)
		}
	}
	return out
}

// Filter applies the view to tasks. ViewAll returns tasks unchanged.
func Filter(tasks []Task, view View, myEmail string) []Task {
	switch view {
	case ViewAssignedToMe:
		return AssignedToMe(tasks, myEmail)
	case ViewAssignedByMe:
		return AssignedByMe(tasks, myEmail)
	default:
		return tasks
	}
}
