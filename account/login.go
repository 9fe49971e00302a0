package account

import (
	"context"

	"docuflow/bizerror"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/jinzhu/gorm"
)

// Bootstrap wires the session login hook to the users table.
func Bootstrap() {
	session.LoginUserFunc = LoginUser
}

func LoginUser(name, password string) (*session.Identity, []string, error) {
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Where(&User{Name: name, Secret: HashSha256(password)}).First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil, bizerror.ErrUnauthenticated
		}
		return nil, nil, err
	}
	return &session.Identity{ID: user.ID, Name: user.Name, Nickname: user.Nickname}, LoadPermsFunc(&user), nil
}
