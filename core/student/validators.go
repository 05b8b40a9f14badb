package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/shuleni/registra/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"
)

func init() {
	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(allRolesTag, allRolesText)
}

// allRolesValidation checks that provided roles are all in AllRoles.
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().(RoleList)
	if !ok {
		return false
	}
	for _, role := range roles {
		if _, ok := NormalizeRole(string(role)); !ok {
			return false
		}
	}
	return true
}
