package access

import "myersadmin/pkg/domain"

// MenuItem is a navigation entry gated by role.
type MenuItem struct {
	Title        string
	Path         string
	Icon         string
	AllowedRoles RoleSet
}

// MenuItems is the static navigation table.
var MenuItems = []MenuItem{
	{Title: "Dashboard", Path: "/dashboard", Icon: "layout-dashboard", AllowedRoles: everyone},
	{Title: "Users", Path: "/users", Icon: "users", AllowedRoles: staff},
	{Title: "Dispensaries", Path: "/dispensaries", Icon: "building-store", AllowedRoles: everyone},
	{Title: "Service Requests", Path: "/service-requests", Icon: "clipboard-list", AllowedRoles: everyone},
	{Title: "Knowledge Base", Path: "/knowledge-base", Icon: "book-open", AllowedRoles: everyone},
	{Title: "Billing", Path: "/billing", Icon: "receipt", AllowedRoles: staff},
	{Title: "Settings", Path: "/settings", Icon: "settings", AllowedRoles: adminOnly},
}

// VisibleMenu returns the menu entries role may see, in table order.
func VisibleMenu(role domain.Role) []MenuItem {
	var out []MenuItem
	for _, item := range MenuItems {
		if IsAuthorized(role, item.AllowedRoles) {
			out = append(out, item)
		}
	}
	return out
}
