package entity

type UserType string

const (
	UserTypeEmployee UserType = "Employee"
	UserTypeAdmin    UserType = "Admin"
)

type Session struct {
	Type  UserType `json:"type"`
	Email string   `json:"email"`
}

func (s Session) IsEmployee() bool {
	return s.Type == UserTypeEmployee
}
