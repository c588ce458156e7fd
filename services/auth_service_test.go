package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/repositories"
	"github.com/blogem/caseledger/repositories/mocks"
)

// AuthServiceTestSuite is a test suite for login and account seeding
type AuthServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockUsers *mocks.MockUserRepository
	service   AuthService
}

// SetupTest sets up the test suite before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockUsers = mocks.NewMockUserRepository(suite.T())
	suite.service = NewAuthService(suite.mockUsers, discardLogger())
}

func (suite *AuthServiceTestSuite) userWithPassword(password string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)
	return &models.User{ID: "u1", Username: "admin", PasswordHash: string(hash), Role: role}
}

// TestLogin_Success tests a correct username and password
func (suite *AuthServiceTestSuite) TestLogin_Success() {
	suite.mockUsers.EXPECT().GetByUsername(mock.Anything, "admin").Return(suite.userWithPassword("secret-pass", models.RoleAdmin), nil)

	user, err := suite.service.Login(suite.ctx, &models.LoginForm{Username: " admin ", Password: "secret-pass"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleAdmin, user.Role)
}

// TestLogin_WrongPassword tests that a wrong password is rejected
func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.mockUsers.EXPECT().GetByUsername(mock.Anything, "admin").Return(suite.userWithPassword("secret-pass", models.RoleAdmin), nil)

	_, err := suite.service.Login(suite.ctx, &models.LoginForm{Username: "admin", Password: "wrong"})

	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)
}

// TestLogin_UnknownUser tests that unknown users get the same error
func (suite *AuthServiceTestSuite) TestLogin_UnknownUser() {
	suite.mockUsers.EXPECT().GetByUsername(mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound)

	_, err := suite.service.Login(suite.ctx, &models.LoginForm{Username: "ghost", Password: "whatever"})

	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)
}

// TestLogin_MissingFields tests that empty credentials are a validation error
func (suite *AuthServiceTestSuite) TestLogin_MissingFields() {
	_, err := suite.service.Login(suite.ctx, &models.LoginForm{Username: "admin"})

	var ve models.ValidationErrors
	assert.ErrorAs(suite.T(), err, &ve)
}

// TestLogin_RepositoryError tests that storage failures are not reported as bad credentials
func (suite *AuthServiceTestSuite) TestLogin_RepositoryError() {
	suite.mockUsers.EXPECT().GetByUsername(mock.Anything, "admin").Return(nil, errors.New("database is locked"))

	_, err := suite.service.Login(suite.ctx, &models.LoginForm{Username: "admin", Password: "x"})

	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, models.ErrInvalidCredentials)
}

// TestCreateUser_HashesPassword tests that passwords are stored as bcrypt hashes
func (suite *AuthServiceTestSuite) TestCreateUser_HashesPassword() {
	var stored *models.User
	suite.mockUsers.EXPECT().Create(mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(ctx context.Context, user *models.User) { stored = user }).
		Return(nil)

	user, err := suite.service.CreateUser(suite.ctx, &models.UserForm{Username: "lawyer", Password: "long-enough", Role: "user"})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), stored, user)
	assert.Equal(suite.T(), models.RoleUser, user.Role)
	assert.NotEqual(suite.T(), "long-enough", user.PasswordHash)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough")))
}

// TestCreateUser_ValidationFailure tests that short passwords are rejected
func (suite *AuthServiceTestSuite) TestCreateUser_ValidationFailure() {
	_, err := suite.service.CreateUser(suite.ctx, &models.UserForm{Username: "lawyer", Password: "short"})

	var ve models.ValidationErrors
	suite.Require().ErrorAs(err, &ve)
	assert.Contains(suite.T(), ve.GetMessages(), "Password must be at least 8 characters")
}

// TestSeedUsers_EmptyDatabase tests that seeds are created on first start
func (suite *AuthServiceTestSuite) TestSeedUsers_EmptyDatabase() {
	suite.mockUsers.EXPECT().Count(mock.Anything).Return(0, nil)
	suite.mockUsers.EXPECT().Create(mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "admin" && u.Role == models.RoleAdmin
	})).Return(nil).Once()

	err := suite.service.SeedUsers(suite.ctx, []SeedUser{
		{Username: "admin", Password: "admin-password", Role: models.RoleAdmin},
		{Username: "user", Password: "", Role: models.RoleUser},
	})

	assert.NoError(suite.T(), err)
}

// TestSeedUsers_ExistingUsers tests that seeding is skipped once accounts exist
func (suite *AuthServiceTestSuite) TestSeedUsers_ExistingUsers() {
	suite.mockUsers.EXPECT().Count(mock.Anything).Return(2, nil)

	err := suite.service.SeedUsers(suite.ctx, []SeedUser{{Username: "admin", Password: "admin-password", Role: models.RoleAdmin}})

	assert.NoError(suite.T(), err)
}

// TestGetUserByEmail_Unknown tests that identity provider emails must map to an account
func (suite *AuthServiceTestSuite) TestGetUserByEmail_Unknown() {
	suite.mockUsers.EXPECT().GetByEmail(mock.Anything, "who@example.com").Return(nil, repositories.ErrUserNotFound)

	_, err := suite.service.GetUserByEmail(suite.ctx, "who@example.com")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)

	_, err = suite.service.GetUserByEmail(suite.ctx, "")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)
}

// TestGetUserByID_Removed tests that a session of a deleted user is not authenticated
func (suite *AuthServiceTestSuite) TestGetUserByID_Removed() {
	suite.mockUsers.EXPECT().GetByID(mock.Anything, "42").Return(nil, repositories.ErrUserNotFound)

	_, err := suite.service.GetUserByID(suite.ctx, "42")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)
}

// TestAuthServiceTestSuite runs the auth service test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
