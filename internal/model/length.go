package model

import "fmt"

// AnswerLength controls how long a generated application answer should be.
type AnswerLength string

const (
	AnswerSmall  AnswerLength = "small"
	AnswerMedium AnswerLength = "medium"
	AnswerLarge  AnswerLength = "large"
)

// ParseAnswerLength validates s. An empty string means medium.
func ParseAnswerLength(s string) (AnswerLength, error) {
	switch AnswerLength(s) {
	case "":
		return AnswerMedium, nil
	case AnswerSmall, AnswerMedium, AnswerLarge:
		return AnswerLength(s), nil
	}
	return "", fmt.Errorf("invalid answer length %q (want small, medium or large)", s)
}

// Instruction returns the sentence-count instruction for the system prompt.
func (l AnswerLength) Instruction() string {
	switch l {
	case AnswerSmall:
		return "Please provide a concise answer in 2-3 sentences."
	case AnswerLarge:
		return "Please provide a comprehensive answer in 7-10 sentences."
	default:
		return "Please provide a detailed answer in 4-6 sentences."
	}
}

// MessageSize controls how long a generated outreach message should be.
type MessageSize string

const (
	MessageSmall MessageSize = "small"
	MessageMid   MessageSize = "mid"
	MessageLarge MessageSize = "large"
)

// ParseMessageSize validates s. An empty string means mid.
func ParseMessageSize(s string) (MessageSize, error) {
	switch MessageSize(s) {
	case "":
		return MessageMid, nil
	case MessageSmall, MessageMid, MessageLarge:
		return MessageSize(s), nil
	}
	return "", fmt.Errorf("invalid message size %q (want small, mid or large)", s)
}

func (s MessageSize) Instruction() string {
	switch s {
	case MessageSmall:
		return "Please provide a concise message in 2-3 sentences."
	case MessageLarge:
		return "Please provide a comprehensive message in 7-10 sentences."
	default:
		return "Please provide a detailed message in 4-6 sentences."
	}
}
