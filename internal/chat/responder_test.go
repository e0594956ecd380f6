package chat

import (
	"strings"
	"testing"
)

// キーワードに応じた応答が返ることを検証
func TestResponder_Reply(t *testing.T) {
	r := NewResponder()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"greeting hello", "Hello!", "Welcome to the Task Management App"},
		{"greeting hi", "hi there", "Welcome to the Task Management App"},
		{"uppercase is normalized", "HELLO", "Welcome to the Task Management App"},
		{"keyword inside sentence", "can you tell me your name?", "Task Assistant"},
		{"project", "what is this project about?", "task management application"},
		{"todo maps to project reply", "where are my todos?", "task management application"},
		{"help", "help me please", "ask me about the project"},
		{"no match falls back", "completely unrelated message", "What can I do for you today?"},
		{"empty message falls back", "", "What can I do for you today?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Reply(tt.message)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Reply(%q) = %q, want substring %q", tt.message, got, tt.want)
			}
		})
	}
}

// ルールは定義順で評価され、最初のマッチが勝つことを検証
func TestResponder_Reply_FirstMatchWins(t *testing.T) {
	r := NewResponder()

	// "hello"と"name"の両方を含む場合、先に定義された挨拶ルールが優先される
	got := r.Reply("hello, what is your name?")
	if !strings.Contains(got, "Welcome to the Task Management App") {
		t.Errorf("Reply() = %q, want the greeting rule to win", got)
	}
}
