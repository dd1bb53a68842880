package webserver_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
)

func TestCreateAccount(t *testing.T) {
	db := infrastructure.Connect("file::memory:")
	app := bootstrapApp(db, afero.NewMemMapFs())

	account := signUp(t, app, "Jane <b>Doe</b>", "Jane@Example.com")
	if account.ID == "" {
		t.Error("Expected account to get an ID")
	}
	if account.Name != "Jane Doe" {
		t.Errorf("Expected sanitized name %q, received %q", "Jane Doe", account.Name)
	}
	if account.Email != "jane@example.com" {
		t.Errorf("Expected email %q, received %q", "jane@example.com", account.Email)
	}

	var cases = []struct {
		name           string
		body           fiber.Map
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "Email already registered",
			body:           fiber.Map{"userId": backend.IDUnique, "email": "jane@example.com", "password": testPassword, "name": "Jane"},
			expectedStatus: http.StatusConflict,
			expectedType:   backend.TypeUserAlreadyExists,
		},
		{
			name:           "Password too short",
			body:           fiber.Map{"userId": backend.IDUnique, "email": "john@example.com", "password": "short", "name": "John"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   backend.TypeArgumentInvalid,
		},
		{
			name:           "Invalid email",
			body:           fiber.Map{"userId": backend.IDUnique, "email": "john", "password": testPassword, "name": "John"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   backend.TypeArgumentInvalid,
		},
		{
			name:           "Invalid custom ID",
			body:           fiber.Map{"userId": "_john", "email": "john@example.com", "password": testPassword, "name": "John"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   backend.TypeArgumentInvalid,
		},
	}

	for _, tcase := range cases {
		t.Run(tcase.name, func(t *testing.T) {
			response, err := jsonRequest(app, http.MethodPost, "/v1/account", "", tcase.body)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err.Error())
			}
			mustReturnStatus(response, tcase.expectedStatus, t)

			var payload backend.Error
			decode(t, response, &payload)
			if payload.Type != tcase.expectedType {
				t.Errorf("Expected error type %s, received %s", tcase.expectedType, payload.Type)
			}
		})
	}
}

func TestSessions(t *testing.T) {
	db := infrastructure.Connect("file::memory:")
	app := bootstrapApp(db, afero.NewMemMapFs())
	account := signUp(t, app, "Jane Doe", "jane@example.com")

	t.Run("Wrong password is rejected", func(t *testing.T) {
		response, err := jsonRequest(app, http.MethodPost, "/v1/account/sessions/email", "", fiber.Map{
			"email":    "jane@example.com",
			"password": "wrong password",
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}
		mustReturnStatus(response, http.StatusUnauthorized, t)

		var payload backend.Error
		decode(t, response, &payload)
		if payload.Type != backend.TypeInvalidCredentials {
			t.Errorf("Expected error type %s, received %s", backend.TypeInvalidCredentials, payload.Type)
		}
	})

	t.Run("Session gives access to the account until it is deleted", func(t *testing.T) {
		session := signIn(t, app, "jane@example.com", testPassword)
		if session.AccountID != account.ID {
			t.Errorf("Expected session for account %s, received %s", account.ID, session.AccountID)
		}

		response, err := jsonRequest(app, http.MethodGet, "/v1/account", session.Secret, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}
		mustReturnStatus(response, http.StatusOK, t)
		var current backend.Account
		decode(t, response, &current)
		if current.ID != account.ID {
			t.Errorf("Expected account %s, received %s", account.ID, current.ID)
		}

		response, err = jsonRequest(app, http.MethodDelete, "/v1/account/sessions/current", session.Secret, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}
		mustReturnStatus(response, http.StatusNoContent, t)

		response, err = jsonRequest(app, http.MethodGet, "/v1/account", session.Secret, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}
		mustReturnStatus(response, http.StatusUnauthorized, t)
	})

	t.Run("Deleting a session of someone else fails", func(t *testing.T) {
		session := signIn(t, app, "jane@example.com", testPassword)

		response, err := jsonRequest(app, http.MethodDelete, "/v1/account/sessions/unknown", session.Secret, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}
		mustReturnStatus(response, http.StatusNotFound, t)
	})

	t.Run("Tokens not signed by the server are rejected", func(t *testing.T) {
		session := signIn(t, app, "jane@example.com", testPassword)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sid": session.ID,
			"sub": session.AccountID,
			"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		forged, err := token.SignedString([]byte("another secret"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}

		response, err := jsonRequest(app, http.MethodGet, "/v1/account", forged, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err.Error())
		}
		mustReturnStatus(response, http.StatusUnauthorized, t)
	})
}
