package rbac

// Portal roles. Every authenticated user carries exactly one.
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
	RoleAdmin    = "ADMIN"
)

// casbin model, RBAC without domains. The portal is single-tenant so the
// policy is a fixed capability table rather than per-company rows.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type grant struct {
	role     string
	resource string
	action   string
}

// roleInherits: setiap role mewarisi seluruh capability role di bawahnya.
var roleInherits = [][2]string{
	{RoleManager, RoleEmployee},
	{RoleHR, RoleManager},
	{RoleAdmin, RoleHR},
}

// grants is the single source of truth for what each role may do. Route
// middleware and service-level checks both resolve through this table, so
// there are no ad hoc role string comparisons anywhere else.
var grants = []grant{
	// Everyone with a portal account.
	{RoleEmployee, "employee", "read"},
	{RoleEmployee, "leavetype", "read"},
	{RoleEmployee, "leavebalance", "read"},
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "cancel"},
	{RoleEmployee, "reservation", "create"},
	{RoleEmployee, "reservation", "read"},
	{RoleEmployee, "reservation", "update"},
	{RoleEmployee, "reservation", "cancel"},
	{RoleEmployee, "complaint", "create"},
	{RoleEmployee, "complaint", "read"},
	{RoleEmployee, "note", "use"},
	{RoleEmployee, "announcement", "read"},
	{RoleEmployee, "settings", "read"},

	// Managers additionally sit in approval flows.
	{RoleManager, "leave", "decide"},
	{RoleManager, "reservation", "respond"},

	// HR runs the back office.
	{RoleHR, "employee", "manage"},
	{RoleHR, "leavetype", "manage"},
	{RoleHR, "leavebalance", "manage"},
	{RoleHR, "leave", "decide-direct"},
	{RoleHR, "complaint", "manage"},
	{RoleHR, "announcement", "manage"},
	{RoleHR, "settings", "manage"},

	// Admin override on reservations (respond/cancel on behalf of anyone).
	{RoleAdmin, "reservation", "admin"},
}
