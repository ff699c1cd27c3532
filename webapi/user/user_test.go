package user_test

import (
	"fmt"
	"testing"

	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	testutils.E2ETestSuite
}

func (s *UserTestSuite) TestCreateUserVariants() {
	testCases := []struct {
		desc       string
		body       string
		wantStatus int
	}{
		{
			desc:       "success",
			body:       `{"name":"Ada","email":"ada@example.com"}`,
			wantStatus: fiber.StatusCreated,
		},
		{
			desc:       "missing name",
			body:       `{"email":"nameless@example.com"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "missing email",
			body:       `{"name":"Bob"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "invalid email",
			body:       `{"name":"Bob","email":"not-an-email"}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "invalid body",
			body:       `{"name":123}`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.MakeRequest(fiber.MethodPost, "/api/users", tc.body)
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(tc.wantStatus, resp.StatusCode)
		})
	}
}

func (s *UserTestSuite) TestCreateUserReturnsID() {
	resp := s.MakeRequest(fiber.MethodPost, "/api/users", `{"name":"Grace","email":"grace@example.com"}`)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	var created dto.UserRead
	s.DecodeData(resp, &created)
	s.NotZero(created.ID)
	s.Equal("Grace", created.Name)
	s.Equal("grace@example.com", created.Email)
}

func (s *UserTestSuite) TestDuplicateEmailConflicts() {
	body := `{"name":"Linus","email":"linus@example.com"}`
	first := s.MakeRequest(fiber.MethodPost, "/api/users", body)
	first.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusCreated, first.StatusCode)

	second := s.MakeRequest(fiber.MethodPost, "/api/users", body)
	s.Equal(fiber.StatusConflict, second.StatusCode)
	s.Equal("Couldn't create user", s.DecodeProblem(second).Title)
}

func (s *UserTestSuite) TestGetUserVariants() {
	id := s.CreateTestUser()
	testCases := []struct {
		path       string
		desc       string
		wantStatus int
	}{
		{fmt.Sprintf("/api/users/%d", id), "found", fiber.StatusOK},
		{"/api/users/999999", "not found", fiber.StatusNotFound},
		{"/api/users/abc", "invalid id", fiber.StatusBadRequest},
	}
	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.MakeRequest(fiber.MethodGet, tc.path, "")
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(tc.wantStatus, resp.StatusCode)
		})
	}
}

func (s *UserTestSuite) TestListUsersOrderedByID() {
	a := s.CreateTestUser()
	b := s.CreateTestUser()

	resp := s.MakeRequest(fiber.MethodGet, "/api/users", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var users []dto.UserRead
	s.DecodeData(resp, &users)

	var ids []uint
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	s.Contains(ids, a)
	s.Contains(ids, b)
	s.IsIncreasing(ids)
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}
