package domain

import "time"

// DateValue is either a literal date or an instruction to copy the task's
// planned date into the actual field being patched.
type DateValue struct {
	literal         *time.Time
	copyFromPlanned bool
}

// Literal wraps a concrete date.
func Literal(d time.Time) DateValue {
	d = DateOf(d)
	return DateValue{literal: &d}
}

// CopyFromPlanned copies the corresponding planned date.
func CopyFromPlanned() DateValue {
	return DateValue{copyFromPlanned: true}
}

func (v DateValue) IsCopyFromPlanned() bool { return v.copyFromPlanned }

// Resolve returns the date to store, given the planned date of the same
// side of the task. ok is false when a copy is requested but nothing is planned.
func (v DateValue) Resolve(planned *time.Time) (*time.Time, bool) {
	if v.copyFromPlanned {
		if planned == nil {
			return nil, false
		}
		d := DateOf(*planned)
		return &d, true
	}
	if v.literal == nil {
		return nil, false
	}
	d := *v.literal
	return &d, true
}

func (v DateValue) String() string {
	if v.copyFromPlanned {
		return "planned"
	}
	if v.literal == nil {
		return ""
	}
	return v.literal.Format(DateLayout)
}

// BulkPatch is the sparse set of fields applied to every selected task.
type BulkPatch struct {
	StartActual *DateValue
	EndActual   *DateValue
	Status      *TaskStatus
	AssigneeID  *string
}

// Empty reports whether the patch carries no fields.
func (p BulkPatch) Empty() bool {
	return p.StartActual == nil && p.EndActual == nil && p.Status == nil && p.AssigneeID == nil
}

// Action classifies the patch for the audit trail.
func (p BulkPatch) Action() string {
	switch {
	case p.AssigneeID != nil && p.StartActual == nil && p.EndActual == nil && p.Status == nil:
		return "task.bulk.assign"
	case p.AssigneeID == nil &&
		p.StartActual != nil && p.StartActual.IsCopyFromPlanned() &&
		p.EndActual != nil && p.EndActual.IsCopyFromPlanned() &&
		p.Status != nil && *p.Status == TaskDone:
		return "task.bulk.mark_done"
	default:
		return "task.bulk.update"
	}
}
