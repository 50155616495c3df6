package bookings

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validBooking() *Booking {
	return &Booking{
		Tour:  primitive.NewObjectID(),
		User:  primitive.NewObjectID(),
		Price: 497,
	}
}

func TestValidateNewDefaultsPaid(t *testing.T) {
	booking := validBooking()
	require.NoError(t, ValidateNew(booking))
	require.NotNil(t, booking.Paid)
	require.True(t, *booking.Paid)
	require.False(t, booking.CreatedAt.IsZero())
}

func TestValidateNewKeepsExplicitUnpaid(t *testing.T) {
	// staff can record a booking taken over the phone and not yet paid
	unpaid := false
	booking := validBooking()
	booking.Paid = &unpaid

	require.NoError(t, ValidateNew(booking))
	require.NotNil(t, booking.Paid)
	require.False(t, *booking.Paid)
}

func TestValidateNewRejectsMissingPieces(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Booking)
		wantMsg string
	}{
		{"no tour", func(b *Booking) { b.Tour = primitive.NilObjectID }, "belong to a tour"},
		{"no user", func(b *Booking) { b.User = primitive.NilObjectID }, "belong to a user"},
		{"no price", func(b *Booking) { b.Price = 0 }, "must have a price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)
			err := ValidateNew(booking)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUserExpansionNeverCarriesCredentials(t *testing.T) {
	project := bookingLookups["user"].Project
	require.NotEmpty(t, project)
	for _, field := range []string{"password", "passwordResetToken", "passwordResetExpires"} {
		require.NotContains(t, project, field)
	}
}
