package models

// All returns every persisted model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&TenantModel{},
		&BranchModel{},
		&UserProfileModel{},
		&CategoryModel{},
		&ProductModel{},
		&ProductExtraModel{},
		&OrderStatusModel{},
		&BranchOrderSequenceModel{},
		&OrderModel{},
		&OrderItemModel{},
		&CashRegisterModel{},
		&CashMovementModel{},
		&ExpenseModel{},
	}
}
