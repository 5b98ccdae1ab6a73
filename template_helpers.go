package gate

import (
	"maps"

	"github.com/goliatone/go-router"
)

// TemplateUserKey is the view key holding the admin user
var TemplateUserKey = "current_user"

// TemplateHelpers returns helpers and data for views rendered around the
// admin area.
//
// In templates, you can then use:
//
//	{% if current_user|is_admin %}
//	<a href="{{ login_path }}">{{ brand.Name }}</a>
func TemplateHelpers(brand Brand) map[string]any {
	return map[string]any{
		"is_admin":   isAdminHelper,
		"login_path": LoginPath,
		"brand":      brand,
		"roles": map[string]string{
			"admin": AdminRoleName,
		},
	}
}

// TemplateHelpersWithRouter adds the admin user stored by the middleware
func TemplateHelpersWithRouter(ctx router.Context, brand Brand) map[string]any {
	helpers := TemplateHelpers(brand)
	if user, ok := UserFromRouter(ctx); ok {
		helpers[TemplateUserKey] = user
	}
	return helpers
}

// MergeTemplateData layers data over the router helpers; data wins
func MergeTemplateData(ctx router.Context, brand Brand, data router.ViewContext) router.ViewContext {
	out := router.ViewContext{}
	maps.Copy(out, TemplateHelpersWithRouter(ctx, brand))
	maps.Copy(out, data)
	return out
}

func isAdminHelper(v any) bool {
	switch u := v.(type) {
	case *User:
		return u.IsAdmin()
	case User:
		return u.IsAdmin()
	case Role:
		return u.IsAdmin()
	case string:
		return ParseRole(u).IsAdmin()
	default:
		return false
	}
}
