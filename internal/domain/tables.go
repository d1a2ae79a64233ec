package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&ProductCategory{},
	&Product{},
	// Deals
	&Deal{},
	&DealParticipant{},
	// CRM
	&Customer{},
}
