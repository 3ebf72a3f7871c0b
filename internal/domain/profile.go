package domain

import (
	"time"
)

// ProfileFields 是资料表中除主键外的全部列，顺序固定
var ProfileFields = []string{
	"name",
	"alias",
	"dob",
	"gender",
	"email",
	"email2",
	"number",
	"number2",
	"base",
	"marital_status",
	"employment",
	"seniority",
	"height",
	"weight",
	"eye_color",
	"hair_color",
	"image",
}

type Profile struct {
	PNo           string     `json:"p_no"`
	Name          *string    `json:"name"`
	Alias         *string    `json:"alias"`
	DOB           *time.Time `json:"dob"`
	Gender        *string    `json:"gender"`
	Email         *string    `json:"email"`
	Email2        *string    `json:"email2"`
	Number        *string    `json:"number"`
	Number2       *string    `json:"number2"`
	Base          *string    `json:"base"`
	MaritalStatus *string    `json:"marital_status"`
	Employment    *time.Time `json:"employment"`
	Seniority     *string    `json:"seniority"`
	Height        *float64   `json:"height"`
	Weight        *float64   `json:"weight"`
	EyeColor      *string    `json:"eye_color"`
	HairColor     *string    `json:"hair_color"`
	Image         *string    `json:"image"`
}

// ProfilePatch 中为 nil 的字段表示未提供，合并时保留原值
type ProfilePatch struct {
	Name          *string
	Alias         *string
	DOB           *time.Time
	Gender        *string
	Email         *string
	Email2        *string
	Number        *string
	Number2       *string
	Base          *string
	MaritalStatus *string
	Employment    *time.Time
	Seniority     *string
	Height        *float64
	Weight        *float64
	EyeColor      *string
	HairColor     *string
	Image         *string
}

// NewProfileStub 返回注册时写入的占位资料：文本字段为空字符串，日期字段为当天
func NewProfileStub(pNo, email string, today time.Time) *Profile {
	empty := func() *string {
		s := ""
		return &s
	}
	date := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	dob, employment := date, date

	return &Profile{
		PNo:           pNo,
		Name:          empty(),
		Alias:         empty(),
		DOB:           &dob,
		Gender:        empty(),
		Email:         &email,
		Email2:        empty(),
		Number:        empty(),
		Number2:       empty(),
		Base:          empty(),
		MaritalStatus: empty(),
		Employment:    &employment,
		Seniority:     empty(),
		EyeColor:      empty(),
		HairColor:     empty(),
		Image:         empty(),
	}
}

// MergeProfile 将 patch 中提供的字段覆盖到 current 上，返回合并后的完整资料。
// 写回数据库时总是更新整行，因此两个并发请求修改不同字段时后写入者会覆盖前者。
func MergeProfile(current Profile, patch ProfilePatch) Profile {
	merged := current

	if patch.Name != nil {
		merged.Name = patch.Name
	}
	if patch.Alias != nil {
		merged.Alias = patch.Alias
	}
	if patch.DOB != nil {
		merged.DOB = patch.DOB
	}
	if patch.Gender != nil {
		merged.Gender = patch.Gender
	}
	if patch.Email != nil {
		merged.Email = patch.Email
	}
	if patch.Email2 != nil {
		merged.Email2 = patch.Email2
	}
	if patch.Number != nil {
		merged.Number = patch.Number
	}
	if patch.Number2 != nil {
		merged.Number2 = patch.Number2
	}
	if patch.Base != nil {
		merged.Base = patch.Base
	}
	if patch.MaritalStatus != nil {
		merged.MaritalStatus = patch.MaritalStatus
	}
	if patch.Employment != nil {
		merged.Employment = patch.Employment
	}
	if patch.Seniority != nil {
		merged.Seniority = patch.Seniority
	}
	if patch.Height != nil {
		merged.Height = patch.Height
	}
	if patch.Weight != nil {
		merged.Weight = patch.Weight
	}
	if patch.EyeColor != nil {
		merged.EyeColor = patch.EyeColor
	}
	if patch.HairColor != nil {
		merged.HairColor = patch.HairColor
	}
	if patch.Image != nil {
		merged.Image = patch.Image
	}

	return merged
}

// FieldValues 按 ProfileFields 的顺序返回所有字段的值
func (p *Profile) FieldValues() []any {
	return []any{
		p.Name,
		p.Alias,
		p.DOB,
		p.Gender,
		p.Email,
		p.Email2,
		p.Number,
		p.Number2,
		p.Base,
		p.MaritalStatus,
		p.Employment,
		p.Seniority,
		p.Height,
		p.Weight,
		p.EyeColor,
		p.HairColor,
		p.Image,
	}
}

// FieldPointers 按 ProfileFields 的顺序返回扫描目标
func (p *Profile) FieldPointers() []any {
	return []any{
		&p.Name,
		&p.Alias,
		&p.DOB,
		&p.Gender,
		&p.Email,
		&p.Email2,
		&p.Number,
		&p.Number2,
		&p.Base,
		&p.MaritalStatus,
		&p.Employment,
		&p.Seniority,
		&p.Height,
		&p.Weight,
		&p.EyeColor,
		&p.HairColor,
		&p.Image,
	}
}
