package chatui

// StarterPrompt is a suggestion shown on the widget's start screen.
type StarterPrompt struct {
	Label  string `json:"label,omitempty"`
	Prompt string `json:"prompt"`
	Icon   string `json:"icon,omitempty"`
}

// Seed provides the default legal-research starter prompts.
func Seed() []StarterPrompt {
	return []StarterPrompt{
		{
			Label:  "Quels arrêts traitent du défaut de base légale ?",
			Prompt: "Quels arrêts traitent du défaut de base légale ?",
			Icon:   "circle-question",
		},
		{
			Label:  "Trouve-moi les arrêts récents sur la rupture du contrat de travail",
			Prompt: "Trouve-moi les arrêts récents sur la rupture du contrat de travail",
			Icon:   "circle-question",
		},
	}
}

// PromptStore exposes starter prompts to HTTP handlers.
type PromptStore interface {
	List() []StarterPrompt
}

// MemoryPromptStore implements PromptStore with an in-memory slice.
type MemoryPromptStore struct {
	items []StarterPrompt
}

// NewMemoryPromptStore returns a store preloaded with the supplied prompts.
func NewMemoryPromptStore(items []StarterPrompt) *MemoryPromptStore {
	return &MemoryPromptStore{items: append([]StarterPrompt(nil), items...)}
}

// List returns a copy of the configured prompts.
func (s *MemoryPromptStore) List() []StarterPrompt {
	return append([]StarterPrompt(nil), s.items...)
}
