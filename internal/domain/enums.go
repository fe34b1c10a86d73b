package domain

// Level identifies a tier of the structural hierarchy.
type Level string

const (
	LevelBuilding  Level = "building"
	LevelStaircase Level = "staircase"
	LevelFloor     Level = "floor"
	LevelUnit      Level = "unit"
)

// MaxDepth is the number of structural levels between a unit and its project.
const MaxDepth = 4

// ValidLevels is the canonical set of accepted level strings.
var ValidLevels = map[string]bool{
	"building": true, "staircase": true, "floor": true, "unit": true,
}

// Parent returns the level directly above l. Buildings hang off the project,
// so their parent level is empty.
func (l Level) Parent() Level {
	switch l {
	case LevelUnit:
		return LevelFloor
	case LevelFloor:
		return LevelStaircase
	case LevelStaircase:
		return LevelBuilding
	default:
		return ""
	}
}

// Label returns the display label used in location paths.
func (l Level) Label() string {
	switch l {
	case LevelBuilding:
		return "Building"
	case LevelStaircase:
		return "Staircase"
	case LevelFloor:
		return "Floor"
	case LevelUnit:
		return "Unit"
	default:
		return string(l)
	}
}

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"open": true, "in_progress": true, "done": true,
}

type FieldType string

const (
	FieldBoolean FieldType = "boolean"
	FieldText    FieldType = "text"
	FieldImage   FieldType = "image"
)

// ValidFieldTypes is the canonical set of checklist answer types.
var ValidFieldTypes = map[string]bool{
	"boolean": true, "text": true, "image": true,
}
