package models

import "gorm.io/gorm"

// KnowledgeEntry is one passage of the coaching knowledge base. The
// vector store holds the embeddings; this table is the local copy used
// for keyword fallback when the vector endpoint is not configured.
type KnowledgeEntry struct {
	gorm.Model
	ExternalID string `gorm:"size:64;index"`
	Category   string `gorm:"size:24;index"` // nutrition|wellness|metabolism|sport|health
	Content    string `gorm:"type:text"`
	SourceTag  string `gorm:"size:24"` // anses|ciqual|inserm|has|pubmed
}
