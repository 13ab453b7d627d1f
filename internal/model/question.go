package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// QuestionType defines how a question is answered
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "MCQ"       // Multiple choice, correctOption names the option
	QuestionTypeNumerical QuestionType = "Numerical" // Numeric answer, accepted within startingRange..endingRange
)

// Question is a single catalogued quiz item
type Question struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	QuesID          string             `json:"quesID" bson:"quesID"`
	Course          string             `json:"course" bson:"course"`
	Subject         string             `json:"subject" bson:"subject"`
	Topic           string             `json:"topic" bson:"topic"`
	Chapter         string             `json:"chapter" bson:"chapter"`
	Tags            string             `json:"tags,omitempty" bson:"tags,omitempty"`
	QuestionContent string             `json:"questionContent" bson:"questionContent"` // text or data URI, stored verbatim
	SolutionContent string             `json:"solutionContent" bson:"solutionContent"`
	QuestionType    QuestionType       `json:"questionType" bson:"questionType"`
	CorrectOption   string             `json:"correctOption" bson:"correctOption"`
	// Numerical only
	StartingRange string `json:"startingRange,omitempty" bson:"startingRange,omitempty"`
	EndingRange   string `json:"endingRange,omitempty" bson:"endingRange,omitempty"`
}

// NewQuestion is the client-supplied payload for creating a question.
// quesID and _id are assigned by the store.
type NewQuestion struct {
	Course          string       `json:"course" yaml:"course" validate:"required"`
	Subject         string       `json:"subject" yaml:"subject" validate:"required"`
	Topic           string       `json:"topic" yaml:"topic" validate:"required"`
	Chapter         string       `json:"chapter" yaml:"chapter" validate:"required"`
	Tags            string       `json:"tags" yaml:"tags"`
	QuestionContent string       `json:"questionContent" yaml:"questionContent" validate:"required"`
	SolutionContent string       `json:"solutionContent" yaml:"solutionContent" validate:"required"`
	QuestionType    QuestionType `json:"questionType" yaml:"questionType" validate:"omitempty,oneof=MCQ Numerical"`
	CorrectOption   string       `json:"correctOption" yaml:"correctOption" validate:"required"`
	StartingRange   string       `json:"startingRange" yaml:"startingRange" validate:"required_if=QuestionType Numerical"`
	EndingRange     string       `json:"endingRange" yaml:"endingRange" validate:"required_if=QuestionType Numerical"`
}

// QuestionPatch carries the fields of a partial update. Nil means untouched.
type QuestionPatch struct {
	Course          *string       `json:"course,omitempty" validate:"omitempty,min=1"`
	Subject         *string       `json:"subject,omitempty" validate:"omitempty,min=1"`
	Topic           *string       `json:"topic,omitempty" validate:"omitempty,min=1"`
	Chapter         *string       `json:"chapter,omitempty" validate:"omitempty,min=1"`
	Tags            *string       `json:"tags,omitempty"`
	QuestionContent *string       `json:"questionContent,omitempty" validate:"omitempty,min=1"`
	SolutionContent *string       `json:"solutionContent,omitempty" validate:"omitempty,min=1"`
	QuestionType    *QuestionType `json:"questionType,omitempty" validate:"omitempty,oneof=MCQ Numerical"`
	CorrectOption   *string       `json:"correctOption,omitempty" validate:"omitempty,min=1"`
	StartingRange   *string       `json:"startingRange,omitempty"`
	EndingRange     *string       `json:"endingRange,omitempty"`
}

// Fields returns the supplied fields keyed by their stored name
func (p *QuestionPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(name string, v *string) {
		if v != nil {
			fields[name] = *v
		}
	}
	set("course", p.Course)
	set("subject", p.Subject)
	set("topic", p.Topic)
	set("chapter", p.Chapter)
	set("tags", p.Tags)
	set("questionContent", p.QuestionContent)
	set("solutionContent", p.SolutionContent)
	set("correctOption", p.CorrectOption)
	set("startingRange", p.StartingRange)
	set("endingRange", p.EndingRange)
	if p.QuestionType != nil {
		fields["questionType"] = *p.QuestionType
	}
	return fields
}

// QuestionPage is one page of the catalog listing
type QuestionPage struct {
	Questions []*Question `json:"questions"`
	Total     int64       `json:"total"`
	Page      int         `json:"page"`
	Limit     int         `json:"limit"`
}
