package model

import "testing"

func TestAccountClassValues(t *testing.T) {
	cases := []struct {
		name  string
		got   AccountClass
		value string
	}{
		{"fan", AccountClassFan, "fan"},
		{"artist", AccountClassArtist, "artist"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			if !tc.got.Valid() {
				t.Fatalf("expected %s to be valid", tc.got)
			}
		})
	}

	if AccountClass("vip").Valid() {
		t.Fatal("unknown class reported as valid")
	}
}

func TestActivityTypeValues(t *testing.T) {
	cases := []struct {
		activity ActivityType
		value    string
	}{
		{ActivityTypeStream, "stream"},
		{ActivityTypeUpload, "upload"},
		{ActivityTypeMilestone100, "milestone_100"},
		{ActivityTypeLike, "like"},
		{ActivityTypeShare, "share"},
	}

	for _, tc := range cases {
		if string(tc.activity) != tc.value {
			t.Fatalf("expected %s, got %s", tc.value, tc.activity)
		}
		if !tc.activity.Valid() {
			t.Fatalf("expected %s to be valid", tc.activity)
		}
	}

	if ActivityType("download").Valid() {
		t.Fatal("unknown activity reported as valid")
	}
}

func TestPayoutStatusValues(t *testing.T) {
	cases := []struct {
		status PayoutStatus
		value  string
	}{
		{PayoutStatusPending, "PENDING"},
		{PayoutStatusSettling, "SETTLING"},
		{PayoutStatusSettled, "SETTLED"},
	}

	for _, tc := range cases {
		if string(tc.status) != tc.value {
			t.Fatalf("expected %s, got %s", tc.value, tc.status)
		}
	}
}
