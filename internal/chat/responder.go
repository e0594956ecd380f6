// Package chat はキーワードマッチによる定型応答チャットを提供する。
package chat

import "strings"

// rule はキーワード群と応答メッセージの組。
// 先に定義されたルールが優先される。
type rule struct {
	keywords []string
	reply    string
}

// Responder はメッセージ内のキーワードに応じた定型応答を返す。
// 状態を持たず、複数goroutineから安全に利用できる。
type Responder struct {
	rules    []rule
	fallback string
}

// NewResponder は既定のルールセットを持つResponderを生成する。
func NewResponder() *Responder {
	return &Responder{
		rules: []rule{
			{
				keywords: []string{"hello", "hi"},
				reply:    "Hello there! Welcome to the Task Management App. How are you today?",
			},
			{
				keywords: []string{"name"},
				reply:    "I'm the Task Assistant. I'm here to help you manage your tasks.",
			},
			{
				keywords: []string{"project", "todo"},
				reply:    "This is a task management application with a web frontend and a Go backend.",
			},
			{
				keywords: []string{"help"},
				reply:    "I can help you understand this application. You can ask me about the project or how to use the features.",
			},
		},
		fallback: "I'm here to help! What can I do for you today?",
	}
}

// Reply はメッセージを小文字化し、最初にマッチしたルールの応答を返す。
// どのルールにもマッチしない場合はフォールバック応答を返す。
func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)

	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}

	return r.fallback
}
