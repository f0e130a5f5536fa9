package client

type NavItem struct {
	Key       string
	Title     string
	Path      string
	OwnerOnly bool
}

var adminMenu = []NavItem{
	{Key: "dashboard", Title: "لوحة التحكم", Path: "/admin"},
	{Key: "requests", Title: "الطلبات", Path: "/admin/requests"},
	{Key: "manage-admins", Title: "إدارة المشرفين", Path: "/admin/manage-admins", OwnerOnly: true},
	{Key: "seo", Title: "إدارة SEO", Path: "/admin/seo"},
	{Key: "settings", Title: "الإعدادات", Path: "/admin/settings"},
}

// Navigation returns the admin menu visible to role. Pass the live role.
func Navigation(role Role) []NavItem {
	items := make([]NavItem, 0, len(adminMenu))
	for _, item := range adminMenu {
		if item.OwnerOnly && role != RoleOwner {
			continue
		}
		items = append(items, item)
	}
	return items
}
