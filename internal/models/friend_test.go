package models

import "testing"

func TestOrderedPair(t *testing.T) {
	tests := []struct {
		name         string
		a, b         string
		want1, want2 string
	}{
		{name: "already ordered", a: "aaa", b: "bbb", want1: "aaa", want2: "bbb"},
		{name: "reversed", a: "bbb", b: "aaa", want1: "aaa", want2: "bbb"},
		{name: "equal", a: "aaa", b: "aaa", want1: "aaa", want2: "aaa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got1, got2 := OrderedPair(tt.a, tt.b)
			if got1 != tt.want1 || got2 != tt.want2 {
				t.Errorf("OrderedPair(%q, %q) = (%q, %q), want (%q, %q)",
					tt.a, tt.b, got1, got2, tt.want1, tt.want2)
			}
		})
	}
}

func TestFriendshipOtherUser(t *testing.T) {
	f := &Friendship{User1ID: "aaa", User2ID: "bbb"}

	if got := f.OtherUser("aaa"); got != "bbb" {
		t.Errorf("OtherUser(aaa) = %q, want bbb", got)
	}
	if got := f.OtherUser("bbb"); got != "aaa" {
		t.Errorf("OtherUser(bbb) = %q, want aaa", got)
	}
}

func TestChatRoomParticipants(t *testing.T) {
	r := &ChatRoom{User1ID: "aaa", User2ID: "bbb"}

	if !r.HasParticipant("aaa") || !r.HasParticipant("bbb") {
		t.Error("HasParticipant() = false for a member")
	}
	if r.HasParticipant("ccc") {
		t.Error("HasParticipant(ccc) = true, want false")
	}
	if got := r.OtherParticipant("aaa"); got != "bbb" {
		t.Errorf("OtherParticipant(aaa) = %q, want bbb", got)
	}
}
