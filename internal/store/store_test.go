package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dogwatch-dev/dogwatch/internal/apperr"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/dogwatch-dev/dogwatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	conn := testutil.NewDB(t)
	return New(conn), conn
}

func body(t *testing.T, v map[string]any) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	return raw
}

func mustPatch(t *testing.T, v map[string]any, allowed []string) DogPatch {
	t.Helper()
	patch, err := ParseDogPatch(body(t, v), allowed)
	require.NoError(t, err)
	return patch
}

func countRows(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(model).Count(&n).Error)
	return n
}

func TestCreateUser(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "pass1", user.PasswordHash)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.CreateUser(ctx, "anna", "other")
		assert.Equal(t, apperr.CodeUsernameTaken, apperr.CodeOf(err))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, int64(1), countRows(t, conn, &models.User{}))
	})

	t.Run("short usernames are rejected", func(t *testing.T) {
		for _, username := range []string{"", "a", "ab", "abc"} {
			_, err := s.CreateUser(ctx, username, "pass1")
			assert.True(t, apperr.Is(err, apperr.KindValidation), "username %q", username)
		}
		assert.Equal(t, int64(1), countRows(t, conn, &models.User{}))
	})

	t.Run("passwords longer than bcrypt accepts are rejected", func(t *testing.T) {
		_, err := s.CreateUser(ctx, "annie", strings.Repeat("p", auth.MaxPasswordBytes+1))
		assert.Equal(t, apperr.CodePasswordTooLong, apperr.CodeOf(err))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, int64(1), countRows(t, conn, &models.User{}))

		_, err = s.CreateUser(ctx, "annie", strings.Repeat("p", auth.MaxPasswordBytes))
		assert.NoError(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)

	user, err := s.Authenticate(ctx, "anna", "pass1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = s.Authenticate(ctx, "anna", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = s.Authenticate(ctx, "nobody", "pass1")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestCreateDog(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	apiID := 149
	breed, err := s.CreateBreed(ctx, "Labrador Retriever", &apiID)
	require.NoError(t, err)

	dog, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{
		"name":     "Rex",
		"age":      2,
		"breed_id": breed.ID,
		"user_id":  999,
	}, DogCreateFields))
	require.NoError(t, err)

	assert.Equal(t, owner.ID, dog.UserID, "owner comes from the session, never the body")
	assert.Equal(t, models.DogStatusAvailable, dog.Status)
	assert.Equal(t, "anna", dog.User.Username)
	require.NotNil(t, dog.Breed)
	assert.Equal(t, "Labrador Retriever", dog.Breed.Name)

	t.Run("unknown breed", func(t *testing.T) {
		_, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{"name": "Ghost", "breed_id": 12345}, DogCreateFields))
		assert.Equal(t, apperr.CodeBreedUnknown, apperr.CodeOf(err))
		assert.Equal(t, int64(1), countRows(t, conn, &models.Dog{}))
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{"age": 3}, DogCreateFields))
		assert.Equal(t, apperr.CodeDogNameRequired, apperr.CodeOf(err))
	})
}

func TestParseDogPatchRejectsNegativeAge(t *testing.T) {
	for _, age := range []int{-1, -5, -100} {
		_, err := ParseDogPatch(body(t, map[string]any{"name": "X", "age": age}), DogCreateFields)
		assert.Equal(t, apperr.CodeDogAgeNegative, apperr.CodeOf(err))
	}
}

func TestParseDogPatch(t *testing.T) {
	patch := mustPatch(t, map[string]any{
		"age":         nil,
		"weight":      25,
		"temperament": "Friendly",
		"description": "ignored on update",
		"user_id":     42,
		"id":          7,
	}, DogUpdateFields)
	assert.Equal(t, []string{"age", "temperament", "weight"}, patch.Fields())

	age := 4
	desc := "kept"
	dog := models.Dog{Name: "Rex", Age: &age, Description: &desc, UserID: 1}
	patch.Apply(&dog)

	assert.Nil(t, dog.Age)
	require.NotNil(t, dog.Weight)
	assert.Equal(t, "25", *dog.Weight)
	assert.Equal(t, "kept", *dog.Description)
	assert.Equal(t, uint(1), dog.UserID)

	_, err := ParseDogPatch(body(t, map[string]any{"status": "Lost"}), DogUpdateFields)
	assert.Equal(t, apperr.CodeDogStatusInvalid, apperr.CodeOf(err))

	_, err = ParseDogPatch(body(t, map[string]any{"age": "two"}), DogUpdateFields)
	assert.Equal(t, apperr.CodeDogFieldInvalid, apperr.CodeOf(err))

	_, err = ParseDogPatch(body(t, map[string]any{"name": ""}), DogUpdateFields)
	assert.Equal(t, apperr.CodeDogNameRequired, apperr.CodeOf(err))
}

func TestUpdateDog(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	breed, err := s.CreateBreed(ctx, "Beagle", nil)
	require.NoError(t, err)

	dog, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{"name": "Rex", "age": 2}, DogCreateFields))
	require.NoError(t, err)

	updated, err := s.UpdateDog(ctx, dog, mustPatch(t, map[string]any{
		"status":   "Adopted",
		"breed_id": breed.ID,
		"user_id":  owner.ID + 1,
	}, DogUpdateFields))
	require.NoError(t, err)
	assert.Equal(t, models.DogStatusAdopted, updated.Status)
	assert.Equal(t, owner.ID, updated.UserID)
	require.NotNil(t, updated.Breed)
	assert.Equal(t, "Beagle", updated.Breed.Name)

	_, err = s.UpdateDog(ctx, updated, mustPatch(t, map[string]any{"breed_id": 9999}, DogUpdateFields))
	assert.Equal(t, apperr.CodeBreedUnknown, apperr.CodeOf(err))

	reloaded, err := s.GetDog(ctx, dog.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.BreedID)
	assert.Equal(t, breed.ID, *reloaded.BreedID, "failed update must not persist")
}

func TestListAvailableDogs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	apiID := 31
	beagle, err := s.CreateBreed(ctx, "Beagle", &apiID)
	require.NoError(t, err)
	pug, err := s.CreateBreed(ctx, "Pug", nil)
	require.NoError(t, err)

	create := func(name, status string, breedID uint) {
		_, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{"name": name, "status": status, "breed_id": breedID}, DogCreateFields))
		require.NoError(t, err)
	}
	create("Snoopy", "Available", beagle.ID)
	create("Lucky", "Adopted", beagle.ID)
	create("Frank", "Available", pug.ID)

	all, err := s.ListAvailableDogs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, d := range all {
		assert.Equal(t, models.DogStatusAvailable, d.Status)
	}

	byBreed, err := s.ListAvailableDogsByBreedAPIID(ctx, apiID)
	require.NoError(t, err)
	require.Len(t, byBreed, 1)
	assert.Equal(t, "Snoopy", byBreed[0].Name)

	_, err = s.ListAvailableDogsByBreedAPIID(ctx, 4242)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteDog(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	dog, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{"name": "Rex"}, DogCreateFields))
	require.NoError(t, err)

	require.NoError(t, s.DeleteDog(ctx, dog.ID))

	_, err = s.GetDog(ctx, dog.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = s.DeleteDog(ctx, dog.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteUserCascadesToDogs(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	anna, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	bobby, err := s.CreateUser(ctx, "bobby", "pass2")
	require.NoError(t, err)

	for _, name := range []string{"Rex", "Fido"} {
		_, err := s.CreateDog(ctx, anna.ID, mustPatch(t, map[string]any{"name": name}, DogCreateFields))
		require.NoError(t, err)
	}
	_, err = s.CreateDog(ctx, bobby.ID, mustPatch(t, map[string]any{"name": "Spot"}, DogCreateFields))
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, anna.ID))

	_, err = s.GetUser(ctx, anna.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var remaining []models.Dog
	require.NoError(t, conn.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, bobby.ID, remaining[0].UserID)

	assert.True(t, apperr.Is(s.DeleteUser(ctx, anna.ID), apperr.KindNotFound))
}

func TestDeleteBreedClearsDogReferences(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "anna", "pass1")
	require.NoError(t, err)
	breed, err := s.CreateBreed(ctx, "Boxer", nil)
	require.NoError(t, err)
	dog, err := s.CreateDog(ctx, owner.ID, mustPatch(t, map[string]any{"name": "Max", "breed_id": breed.ID}, DogCreateFields))
	require.NoError(t, err)

	require.NoError(t, s.DeleteBreed(ctx, breed.ID))

	reloaded, err := s.GetDog(ctx, dog.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.BreedID)
	assert.Nil(t, reloaded.Breed)

	breeds, err := s.ListBreeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, breeds)
}
