package domain

// Permission names a gate in the USER sheet
type Permission string

const (
	PermAdministrate             Permission = "administrate"
	PermCreateIndent             Permission = "createIndent"
	PermCreatePO                 Permission = "createPo"
	PermIndentApprovalView       Permission = "indentApprovalView"
	PermIndentApprovalAction     Permission = "indentApprovalAction"
	PermUpdateVendorView         Permission = "updateVendorView"
	PermUpdateVendorAction       Permission = "updateVendorAction"
	PermThreePartyApprovalView   Permission = "threePartyApprovalView"
	PermThreePartyApprovalAction Permission = "threePartyApprovalAction"
	PermReceiveItemView          Permission = "receiveItemView"
	PermReceiveItemAction        Permission = "receiveItemAction"
	PermStoreOutApprovalView     Permission = "storeOutApprovalView"
	PermStoreOutApprovalAction   Permission = "storeOutApprovalAction"
	PermPendingIndentsView       Permission = "pendingIndentsView"

	// PermDashboard is granted to every signed-in user
	PermDashboard Permission = "dashboard"
)

// AllPermissions lists the sheet-backed permission columns in order
var AllPermissions = []Permission{
	PermAdministrate,
	PermCreateIndent,
	PermCreatePO,
	PermIndentApprovalView,
	PermIndentApprovalAction,
	PermUpdateVendorView,
	PermUpdateVendorAction,
	PermThreePartyApprovalView,
	PermThreePartyApprovalAction,
	PermReceiveItemView,
	PermReceiveItemAction,
	PermStoreOutApprovalView,
	PermStoreOutApprovalAction,
	PermPendingIndentsView,
}

// User is a row of the USER sheet
type User struct {
	RowIndex Number `json:"rowIndex"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`

	Administrate             Flag `json:"administrate"`
	CreateIndent             Flag `json:"createIndent"`
	CreatePO                 Flag `json:"createPo"`
	IndentApprovalView       Flag `json:"indentApprovalView"`
	IndentApprovalAction     Flag `json:"indentApprovalAction"`
	UpdateVendorView         Flag `json:"updateVendorView"`
	UpdateVendorAction       Flag `json:"updateVendorAction"`
	ThreePartyApprovalView   Flag `json:"threePartyApprovalView"`
	ThreePartyApprovalAction Flag `json:"threePartyApprovalAction"`
	ReceiveItemView          Flag `json:"receiveItemView"`
	ReceiveItemAction        Flag `json:"receiveItemAction"`
	StoreOutApprovalView     Flag `json:"storeOutApprovalView"`
	StoreOutApprovalAction   Flag `json:"storeOutApprovalAction"`
	PendingIndentsView       Flag `json:"pendingIndentsView"`
}

// Permissions returns the granted permission names. Administrators hold
// every permission.
func (u User) Permissions() []Permission {
	flags := map[Permission]Flag{
		PermAdministrate:             u.Administrate,
		PermCreateIndent:             u.CreateIndent,
		PermCreatePO:                 u.CreatePO,
		PermIndentApprovalView:       u.IndentApprovalView,
		PermIndentApprovalAction:     u.IndentApprovalAction,
		PermUpdateVendorView:         u.UpdateVendorView,
		PermUpdateVendorAction:       u.UpdateVendorAction,
		PermThreePartyApprovalView:   u.ThreePartyApprovalView,
		PermThreePartyApprovalAction: u.ThreePartyApprovalAction,
		PermReceiveItemView:          u.ReceiveItemView,
		PermReceiveItemAction:        u.ReceiveItemAction,
		PermStoreOutApprovalView:     u.StoreOutApprovalView,
		PermStoreOutApprovalAction:   u.StoreOutApprovalAction,
		PermPendingIndentsView:       u.PendingIndentsView,
	}

	perms := []Permission{PermDashboard}
	for _, p := range AllPermissions {
		if bool(u.Administrate) || bool(flags[p]) {
			perms = append(perms, p)
		}
	}
	return perms
}

// Profile is the public view of a signed-in user
type Profile struct {
	Username    string       `json:"username"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}
