package session

// PendingTranscript is the placeholder user text for a turn whose
// transcription is still outstanding.
const PendingTranscript = "[pending transcription]"

// Summary is the case's editable bilingual summary. Empty on import;
// the editor fills it in.
type Summary struct {
	ZH string `json:"zh"`
	EN string `json:"en"`
}

// System is the case's system block.
type System struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
	// RefAudio is the reference audio path relative to the resources
	// root, or "" if the session has none.
	RefAudio string `json:"ref_audio"`
}

// Turn is one user/assistant exchange. Index is 0-based and contiguous.
type Turn struct {
	Index int `json:"index"`
	// UserText is the resolved transcript, PendingTranscript while a
	// worker is still on it, or "" for a turn without user audio.
	UserText       string `json:"user_text"`
	AssistantText  string `json:"assistant_text"`
	AssistantAudio string `json:"assistant_audio"`
}

// CaseRecord is one editable demo case built from an imported session.
type CaseRecord struct {
	CaseID  string  `json:"case_id"`
	Summary Summary `json:"summary"`
	System  System  `json:"system"`
	Turns   []Turn  `json:"turns"`
}
