package querybuilder

type CondType int

const (
	CondTypeAnd CondType = iota + 1
)

func (c CondType) ToString() string {
	switch c {
	case CondTypeAnd:
		return "AND"
	default:
		return ""
	}
}

type Condition struct {
	condType CondType
	clause   string
	args     []interface{}
}
