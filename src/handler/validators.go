package handler

import (
	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("challengecategory", validateChallengeCategory)
	}
}

func validateChallengeCategory(fl validator.FieldLevel) bool {
	switch domain.ChallengeCategory(fl.Field().String()) {
	case domain.CategoryWeb, domain.CategoryPwn, domain.CategoryCrypto,
		domain.CategoryForensics, domain.CategoryReverse, domain.CategoryMisc:
		return true
	default:
		return false
	}
}
