package author

import (
	"strings"
	"time"
)

// Author 作者实体(聚合根)
// DDD设计说明:
// 1. 作者是独立聚合,Book只保存AuthorID
// 2. 同名同姓视为同一作者(first_name+last_name组合唯一)
// 3. 作者名下仍有图书时禁止删除(保护性约束,见Repository.Delete)
type Author struct {
	ID        uint
	FirstName string     // 名
	LastName  string     // 姓
	Birthdate *time.Time // 出生日期(可选)
	Country   string     // 国别
	Biography string     // 作者简介
	PhotoURL  string     // 照片URL(可选)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAuthor 创建新作者(工厂方法)
func NewAuthor(firstName, lastName string, birthdate *time.Time, country, biography, photoURL string) *Author {
	now := time.Now()
	return &Author{
		FirstName: firstName,
		LastName:  lastName,
		Birthdate: birthdate,
		Country:   country,
		Biography: biography,
		PhotoURL:  photoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName 作者全名(展示用)
func (a *Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// UpdateInfo 更新作者信息(领域行为)
func (a *Author) UpdateInfo(firstName, lastName string, birthdate *time.Time, country, biography, photoURL string) {
	if firstName != "" {
		a.FirstName = firstName
	}
	if lastName != "" {
		a.LastName = lastName
	}
	if birthdate != nil {
		a.Birthdate = birthdate
	}
	if country != "" {
		a.Country = country
	}
	if biography != "" {
		a.Biography = biography
	}
	if photoURL != "" {
		a.PhotoURL = photoURL
	}
	a.UpdatedAt = time.Now()
}
