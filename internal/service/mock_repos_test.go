package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"engagelens/config"
	"engagelens/internal/engagement"
	"engagelens/internal/model"
	"engagelens/internal/repository"
	pkgerrors "engagelens/pkg/errors"
	"engagelens/pkg/jwt"
)

// ── Mock Repositories ──

type mockAccountRepo struct {
	accounts map[string]*model.Account
	failWith error // 非 nil 时所有操作返回该错误
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.accounts[account.Username]; ok {
		return pkgerrors.ErrDuplicateKey
	}
	cp := *account
	m.accounts[account.Username] = &cp
	return nil
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.accounts[username]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountRepo) Update(_ context.Context, account *model.Account) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.accounts[account.Username]; !ok {
		return pkgerrors.ErrNotFound
	}
	cp := *account
	m.accounts[account.Username] = &cp
	return nil
}

// ── Mock Token 黑名单 ──

type mockBlacklist struct {
	entries map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{entries: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.entries[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.entries[jti]
	return ok, nil
}

var errMockStore = errors.New("mock 存储故障")

// ── 测试辅助 ──

const testSecret = "test-secret-key-for-unit-testing-2026"

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      testSecret,
		AccessTokenTTL: 15 * time.Minute,
	})
}

// sampleStudents 三门课程、覆盖全部分箱的测试数据
func sampleStudents() []model.StudentRecord {
	return []model.StudentRecord{
		{UserID: 7, CourseName: "Algebra", TimeSpentOnCourse: 12.345, QuizScores: 88, CompletionRate: 91.2, CourseCompletion: 1, PredictedEngagement: engagement.LabelHigh},
		{UserID: 8, CourseName: "Algebra", TimeSpentOnCourse: 3.5, QuizScores: 20, CompletionRate: 10.004, CourseCompletion: 0, PredictedEngagement: engagement.LabelLow},
		{UserID: 19, CourseName: "Biology", TimeSpentOnCourse: 7.25, QuizScores: 40.5, CompletionRate: 55.5, CourseCompletion: 0, PredictedEngagement: engagement.LabelMedium},
		{UserID: 27, CourseName: "Biology", TimeSpentOnCourse: 9.75, QuizScores: 60, CompletionRate: 70, CourseCompletion: 1, PredictedEngagement: engagement.LabelHigh},
		{UserID: 31, CourseName: "Art History", TimeSpentOnCourse: 1, QuizScores: 79.9, CompletionRate: 33.335, CourseCompletion: 0, PredictedEngagement: engagement.LabelLow},
	}
}

func newTestRepository(records []model.StudentRecord, accounts repository.AccountRepository) *repository.Repository {
	return repository.NewRepository(repository.NewStudentTable(records), accounts)
}

// testScorer 恒等标准化、只看 QuizScores 的评分器：score 越高概率越大
func testScorer() *engagement.Scorer {
	scaler := &engagement.Scaler{Mean: []float64{0, 50, 0}, Scale: []float64{1, 10, 1}}
	classifier := &engagement.Classifier{Coef: []float64{0, 1, 0}, Intercept: 0}
	return engagement.NewScorer(scaler, classifier, engagement.OriginLoaded)
}

func nopLogger() *zap.Logger { return zap.NewNop() }
