package service

import (
	"VaultDrop/internal/repo"
	"VaultDrop/model"
	"VaultDrop/utils"
	"errors"
)

// CreateUser hashes the password and creates a user.
func CreateUser(user *model.User) error {
	user.Password = utils.HashSecret(user.Password)
	if err := repo.Db.Create(user).Error; err != nil {
		return err
	}
	return nil
}

// IsExist checks whether a user exists.
func IsExist(username string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return &model.User{}, err
	}
	return &user, nil
}

// CheckPassword verifies a user's password.
func CheckPassword(username, password string) error {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("user_name = ?", username).First(&user).Error; err != nil {
		return err
	}
	if !utils.VerifySecret(password, user.Password) {
		return errors.New("password error")
	}
	return nil
}

// GetUserByEmail looks a user up by email.
func GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword hashes and stores a new password for a user.
func UpdatePassword(userID uint64, password string) error {
	return repo.Db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("pass_word", utils.HashSecret(password)).Error
}

// IsEmailExist checks whether an email is already registered.
func IsEmailExist(email string) error {
	var user model.User
	if err := repo.Db.Model(&model.User{}).Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	return nil
}
