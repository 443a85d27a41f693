package session

import (
	"testing"
	"time"

	"github.com/silent2803/NurtiDuo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration_DerivesAgeFromYears(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	form := validRegistration()
	form.BirthDate = "2000-11-30"

	input, err := ValidateRegistration(form, now)
	require.NoError(t, err)

	// Year subtraction, not calendar age: the November birthday has not
	// happened yet in March but the derived age is still 26.
	assert.Equal(t, 26, input.Age)
	assert.Equal(t, time.Date(2000, time.November, 30, 0, 0, 0, 0, time.UTC), input.BirthDate)
}

func TestValidateRegistration_UnderageMessage(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	form := validRegistration()
	form.BirthDate = "2016-01-01"

	_, err := ValidateRegistration(form, now)

	var valErr *models.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "you must be at least 13 years old to register", valErr.Reason)
}

func TestValidateRegistration_FirstFailureWins(t *testing.T) {
	form := Registration{} // everything missing

	_, err := ValidateRegistration(form, time.Now())

	var valErr *models.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "username is required", valErr.Reason)
}

func TestValidateRegistration_PasswordMismatchMessage(t *testing.T) {
	form := validRegistration()
	form.ConfirmPassword = "something-else"

	_, err := ValidateRegistration(form, time.Now())

	var valErr *models.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "passwords do not match", valErr.Reason)
}

func TestValidateRegistration_GenderValues(t *testing.T) {
	for _, gender := range []models.Gender{models.GenderMale, models.GenderFemale, models.GenderOther} {
		form := validRegistration()
		form.Gender = gender

		input, err := ValidateRegistration(form, time.Now())
		require.NoError(t, err)
		assert.Equal(t, gender, input.Gender)
	}
}
