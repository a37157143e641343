package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                = "UNKNOWN"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeInvalidArgument        = "INVALID_ARGUMENT"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeNotFound               = "NOT_FOUND"
	CodeCorruptState           = "CORRUPT_STATE"
	CodeIOFailure              = "IO_FAILURE"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

var enUSMessages = map[Code]string{
	CodeUnknown:                "an unexpected error occurred",
	CodeInsufficientFunds:      "Insufficient funds: available balance is {{.Balance}}, requested {{.Amount}}",
	CodeInvalidArgument:        "{{if .Field}}Invalid {{.Field}}{{else}}Invalid request{{end}}{{if .Reason}}: {{.Reason}}{{end}}",
	CodeInvalidTransition:      "Cannot move {{.Entity}} {{.ID}} from {{.FromStatus}} to {{.ToStatus}}",
	CodeNotFound:               "{{if .Entity}}{{.Entity}} {{.ID}} was not found{{else}}Not found{{end}}",
	CodeCorruptState:           "Stored account data could not be read",
	CodeIOFailure:              "Account data could not be saved",
	CodeConcurrentModification: "The record changed while you were editing it, please retry",
}
