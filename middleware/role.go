package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"madrasa/apperror"
	"madrasa/database"
	"madrasa/models"
)

// RequireRoles loads the session user and lets the request through only for the given roles.
// Teachers must also be approved. The user is stored under the "user" local.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeUnauthenticated))
		}

		var user models.User
		err := database.Database.Db.WithContext(c.UserContext()).First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeUnauthenticated))
		}
		if err != nil {
			return ErrorResponse(c, apperror.Internal(err, apperror.CodeInternal))
		}

		if !hasRole(user.Role, roles) {
			return ErrorResponse(c, apperror.Forbidden(apperror.CodeForbidden))
		}
		if user.Role == models.RoleTeacher && !user.IsApproved {
			return ErrorResponse(c, apperror.Forbidden(apperror.CodeTeacherPending))
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// AnyUser admits every role.
func AnyUser() fiber.Handler {
	return RequireRoles(models.RoleStudent, models.RoleTeacher, models.RoleAdmin)
}

// CurrentUser returns the user stored by RequireRoles.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals("user").(models.User)
	return user
}

func hasRole(role models.Role, roles []models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
