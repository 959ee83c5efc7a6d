package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/maous26/lvmeal-sub008/models"
	"github.com/maous26/lvmeal-sub008/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(email, password, fullName string) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, errors.New("email already registered")
	}
	return &user, nil
}

// Authenticate checks credentials. When MFA is enabled the token is
// withheld: a code goes out by email and the login completes through
// VerifyMFA.
func (s *AuthService) Authenticate(email, password string) (token string, mfaRequired bool, err error) {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return "", false, errors.New("user not found or disabled")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", false, errors.New("incorrect password")
	}

	if user.MFAEnabled {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		user.MFACode = code
		if err := s.db.Save(&user).Error; err != nil {
			return "", false, err
		}
		if err := utils.SendMFAEmail(user.Email, code); err != nil {
			return "", false, err
		}
		return "", true, nil
	}

	token, err = utils.GenerateJWT(user.ID, user.Email)
	return token, false, err
}

func (s *AuthService) VerifyMFA(email, code string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return "", errors.New("user not found or disabled")
	}
	if user.MFACode == "" || user.MFACode != code {
		return "", errors.New("invalid verification code")
	}

	user.MFACode = ""
	if err := s.db.Save(&user).Error; err != nil {
		return "", err
	}
	return utils.GenerateJWT(user.ID, user.Email)
}

// RequestPasswordReset is deliberately silent about unknown emails.
func (s *AuthService) RequestPasswordReset(email string) error {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return nil
	}

	token := utils.GenerateRandomToken(8)
	user.ResetToken = token
	if err := s.db.Save(&user).Error; err != nil {
		return err
	}
	return utils.SendResetEmail(user.Email, token)
}

func (s *AuthService) ResetPassword(email, token, newPassword string) error {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}
	if user.ResetToken == "" || user.ResetToken != token {
		return errors.New("invalid reset token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	return s.db.Save(&user).Error
}
