package model

type WordType string

const (
	WordNoun      WordType = "noun"
	WordVerb      WordType = "verb"
	WordAdjective WordType = "adjective"
	WordAdverb    WordType = "adverb"
	WordPhrase    WordType = "phrase"
)

// swagger:model Word
type Word struct {
	BaseModel
	Content          string   `gorm:"size:200;not null;index" json:"content"`
	Meaning          string   `gorm:"type:text" json:"meaning"`
	WordType         WordType `gorm:"size:20" json:"wordType"`
	Transcription    string   `gorm:"size:200" json:"transcription"`
	PronunciationURL string   `gorm:"size:255" json:"pronunciationUrl"`
}

func (Word) TableName() string {
	return "words"
}
