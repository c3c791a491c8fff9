package constants

const (
	TemplateInventoryINI = "inventory-ini"
)
