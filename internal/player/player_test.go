package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesFields(t *testing.T) {
	p, err := New("dupont", "jean-paul", "1990-05-02", "ab12345")
	require.NoError(t, err)
	assert.Equal(t, "Dupont", p.LastName)
	assert.Equal(t, "Jean-Paul", p.FirstName)
	assert.Equal(t, "AB12345", p.NationalID)
	assert.Equal(t, time.Now().Format(dateLayout), p.DateEnrolled)
}

func TestNewRejectsInvalidName(t *testing.T) {
	_, err := New("Dup0nt", "Jean", "1990-05-02", "AB12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidField)
	var fieldErr *InvalidFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "last_name", fieldErr.Field)
}

func TestNewRejectsInvalidID(t *testing.T) {
	_, err := New("Dupont", "Jean", "1990-05-02", "A1234")
	require.Error(t, err)
}

func TestNewRejectsFutureBirthdate(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0).Format(dateLayout)
	_, err := New("Dupont", "Jean", future, "AB12345")
	require.Error(t, err)
}

func TestNewRejectsBirthYearOutOfRange(t *testing.T) {
	_, err := New("Dupont", "Jean", "1900-01-01", "AB12345")
	require.Error(t, err)
}

func TestAge(t *testing.T) {
	p, err := New("Dupont", "Jean", "2000-01-01", "AB12345")
	require.NoError(t, err)
	age, err := p.Age()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, age, 24)
}

func TestSettersNormalize(t *testing.T) {
	p, err := New("Dupont", "Jean", "1990-05-02", "AB12345")
	require.NoError(t, err)
	require.NoError(t, p.SetNationalID("cd67890"))
	assert.Equal(t, "CD67890", p.NationalID)
	require.NoError(t, p.SetLastName("o'brien"))
	assert.Equal(t, "O'Brien", p.LastName)
}
