// Package authz centralizes capability checks. Route handlers ask these
// predicates instead of re-deriving role and ownership rules inline.
package authz

import "github.com/anasyaks/arewabites/models"

// CanMutateSnack reports whether the caller may edit or delete a snack.
// Owners and admins only.
func CanMutateSnack(caller models.Vendor, snack models.Snack) bool {
	return caller.IsAdmin || snack.VendorID == caller.ID
}

// CanEditVendor reports whether the caller may edit a vendor profile.
func CanEditVendor(caller, target models.Vendor) bool {
	return caller.IsAdmin || caller.ID == target.ID
}

// CanDeleteVendor reports whether the caller may delete a vendor account.
// Admin accounts, including the canonical one, are never deletable.
func CanDeleteVendor(caller, target models.Vendor) bool {
	return caller.IsAdmin && !target.IsAdmin
}

// CanManageAds reports whether the caller may create, edit, delete or
// toggle ads.
func CanManageAds(caller models.Vendor) bool {
	return caller.IsAdmin
}
