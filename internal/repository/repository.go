package repository

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Student StudentRepository
	Account AccountRepository // 账户存储未配置时为 nil
}

// NewRepository 创建 Repository 聚合
func NewRepository(students StudentRepository, accounts AccountRepository) *Repository {
	return &Repository{
		Student: students,
		Account: accounts,
	}
}
