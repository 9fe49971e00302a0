package account

import (
	"crypto/sha256"
	"encoding/hex"

	"docuflow/idgen"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	LoadPermsFunc     = LoadPerms
	LoadUserNamesFunc = LoadUserNames
)

type User struct {
	ID       types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name     string   `json:"name" gorm:"unique_index"`
	Nickname string   `json:"nickname"`
	Secret   string   `json:"-"`
	Role     string   `json:"role"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type UserCreation struct {
	Name     string `json:"name" binding:"required"`
	Nickname string `json:"nickname"`
	Secret   string `json:"secret" binding:"required,gte=6"`
	Role     string `json:"role"`
}

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

func CreateUser(c *UserCreation, tx *gorm.DB) (*User, error) {
	nickname := c.Nickname
	if nickname == "" {
		nickname = c.Name
	}
	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Nickname: nickname,
		Secret: HashSha256(c.Secret), Role: c.Role, CreateTime: types.CurrentTimestamp()}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureAdminUser seeds the default administrator account on first start.
func EnsureAdminUser() error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	return db.Transaction(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&User{}).Where(&User{Name: "admin"}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		_, err := CreateUser(&UserCreation{Name: "admin", Nickname: "Administrator",
			Secret: "admin123", Role: session.RoleAdmin}, tx)
		return err
	})
}

// LoadPerms resolves the permission strings attached to a session at login.
func LoadPerms(user *User) []string {
	if user.Role == "" {
		return []string{}
	}
	return []string{user.Role}
}

// LoadUserNames resolves display names for denormalized copies on
// workflow records.
func LoadUserNames(tx *gorm.DB, ids []types.ID) (map[types.ID]string, error) {
	names := map[types.ID]string{}
	if len(ids) == 0 {
		return names, nil
	}
	var users []User
	if err := tx.Model(&User{}).Where("id in (?)", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Nickname
	}
	return names, nil
}
