package services

import (
	"context"
	"testing"
)

func TestTeamService(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", "Alice")
	env.addUser(t, "bob", "Bob")
	svc := NewTeamService(env.store)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, "alice", CreateTeamInput{Player1ID: "alice", Player2ID: "bob"})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if team.TeamName != "Alice / Bob" {
		t.Errorf("default name = %q", team.TeamName)
	}
	got, err := svc.GetTeam(ctx, team.ID)
	if err != nil || !got.HasPlayer("bob") {
		t.Fatalf("GetTeam: %+v, %v", got, err)
	}

	named, err := svc.CreateTeam(ctx, "bob", CreateTeamInput{Player1ID: "alice", Player2ID: "bob", TeamName: "Net Rushers"})
	if err != nil || named.TeamName != "Net Rushers" {
		t.Errorf("named team: %+v, %v", named, err)
	}

	tests := []struct {
		name   string
		caller string
		input  CreateTeamInput
		code   ErrorCode
	}{
		{"missing player", "alice", CreateTeamInput{Player1ID: "alice"}, CodeInvalidArgument},
		{"same player twice", "alice", CreateTeamInput{Player1ID: "alice", Player2ID: "alice"}, CodeInvalidArgument},
		{"caller not in team", testHostID, CreateTeamInput{Player1ID: "alice", Player2ID: "bob"}, CodePermissionDenied},
		{"unknown player", "alice", CreateTeamInput{Player1ID: "alice", Player2ID: "ghost"}, CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTeam(ctx, tt.caller, tt.input)
			assertCode(t, err, tt.code)
		})
	}

	_, err = svc.GetTeam(ctx, "missing")
	assertCode(t, err, CodeNotFound)
	assertIs(t, err, ErrTeamNotFound)
}
