package domain

import "github.com/uptrace/bun"

type User struct {
	bun.BaseModel `bun:"table:users"`
	Meta

	Name         string `bun:"name"`
	Email        string `bun:"email"`
	MobileNo     string `bun:"mobile_no,notnull"`
	PasswordHash string `bun:"password_hash"`
	Gender       string `bun:"gender"`
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
