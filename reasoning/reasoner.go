// Copyright 2025 Wayfarer AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reasoning implements component C5, the ThoughtChainBuilder, in
// both its LLM-assisted and rule-based-fallback modes, plus the Reasoner
// collaborator interface shared with C8's AnswerComposer.
package reasoning

import "context"

// Message is one turn of a chat-style prompt passed to a Reasoner.
type Message struct {
	Role    string
	Content string
}

// Reasoner is the abstract LLM collaborator. Implementations must honor
// ctx and must not block indefinitely; a transport failure is returned as
// an error, never panicked.
type Reasoner interface {
	Complete(ctx context.Context, messages []Message, systemPrompt string) (string, error)
}
