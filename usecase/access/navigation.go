package access

import "github.com/fastygo/aiops/domain"

// View names shared by the view registry and the navigation.
const (
	ViewDashboard      = "dashboard"
	ViewIncidents      = "incidents"
	ViewMonitoring     = "monitoring"
	ViewAutomation     = "automation"
	ViewAnalytics      = "analytics"
	ViewChatOps        = "chatops"
	ViewTopology       = "topology"
	ViewKnowledge      = "knowledge"
	ViewAgents         = "agents"
	ViewAccount        = "account"
	ViewUserManagement = "user-management"
	ViewAdmin          = "admin"
)

var (
	opsRoles   = []domain.Role{domain.RoleAdmin, domain.RoleOperator}
	adminOnly  = []domain.Role{domain.RoleAdmin}
	mgmtRoles  = []domain.Role{domain.RoleAdmin, domain.RoleOperator, domain.RoleExecutive}
	watchRoles = []domain.Role{domain.RoleAdmin, domain.RoleOperator, domain.RoleObserver}
)

var viewRoles = map[string][]domain.Role{
	ViewDashboard:      AllRoles,
	ViewChatOps:        AllRoles,
	ViewKnowledge:      AllRoles,
	ViewAccount:        AllRoles,
	ViewIncidents:      watchRoles,
	ViewMonitoring:     watchRoles,
	ViewAutomation:     mgmtRoles,
	ViewAnalytics:      mgmtRoles,
	ViewTopology:       opsRoles,
	ViewAgents:         opsRoles,
	ViewUserManagement: adminOnly,
	ViewAdmin:          adminOnly,
}

// ViewRoles returns the allow-list of a console view.
func ViewRoles(view string) []domain.Role {
	return append([]domain.Role(nil), viewRoles[view]...)
}

type NavItem struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	View  string `json:"view"`
}

type NavGroup struct {
	Label string    `json:"label"`
	Items []NavItem `json:"items"`
}

var navigation = []NavGroup{
	{
		Label: "Overview",
		Items: []NavItem{
			{Label: "Dashboard", Href: "/dashboard", View: ViewDashboard},
			{Label: "Knowledge", Href: "/knowledge", View: ViewKnowledge},
			{Label: "Account", Href: "/account", View: ViewAccount},
		},
	},
	{
		Label: "Operations",
		Items: []NavItem{
			{Label: "Incidents", Href: "/incidents", View: ViewIncidents},
			{Label: "Monitoring", Href: "/monitoring", View: ViewMonitoring},
			{Label: "Automation", Href: "/automation", View: ViewAutomation},
			{Label: "Analytics", Href: "/analytics", View: ViewAnalytics},
			{Label: "Topology", Href: "/topology", View: ViewTopology},
			{Label: "ChatOps", Href: "/chatops", View: ViewChatOps},
		},
	},
	{
		Label: "Administration",
		Items: []NavItem{
			{Label: "Agent management", Href: "/agent-management", View: ViewAgents},
			{Label: "User management", Href: "/user-management", View: ViewUserManagement},
			{Label: "Admin", Href: "/admin", View: ViewAdmin},
		},
	},
}

// Navigation returns the groups visible to role with empty groups dropped.
func Navigation(role domain.Role) []NavGroup {
	var out []NavGroup
	for _, group := range navigation {
		visible := NavGroup{Label: group.Label}
		for _, item := range group.Items {
			if domain.HasRole(role, viewRoles[item.View]...) {
				visible.Items = append(visible.Items, item)
			}
		}
		if len(visible.Items) > 0 {
			out = append(out, visible)
		}
	}
	return out
}
