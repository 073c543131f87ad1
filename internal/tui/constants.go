package tui

// UI Layout Constants

const (
	// Panel borders and padding
	PanelBorderWidth       = 2 // Width consumed by borders
	PanelPaddingHorizontal = 2 // Horizontal padding (left + right)

	// Input sizes
	InputWidthDefault   = 60
	KeyInputHeight      = 8 // Visible lines of the armored key field
	PublicKeyPreviewMax = 6 // Lines of the public key shown in the key ring panel

	// Character limits for single-line fields
	IdentityCharLimit   = 256
	PassphraseCharLimit = 1024
	BitsCharLimit       = 6
	FingerprintLimit    = 128

	// Status bar
	StatusMaxLength = 100 // Truncate footer messages beyond this
	HistoryLimit    = 200 // Rows loaded into the history pane
	HistoryOverhead = 4   // Title + border lines around the history pane
)
