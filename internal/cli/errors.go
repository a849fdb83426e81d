package cli

import (
	"errors"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/cli/formatter"
)

// FormatError renders err for the terminal with a hint for the error kind.
func FormatError(err error) string {
	if errors.Is(err, formatter.ErrInterrupted) {
		return formatter.Dim("interrupted") + "\n"
	}
	appErr, ok := app.AsError(err)
	if !ok {
		return formatter.StyleRed.Render("error:") + " " + err.Error() + "\n"
	}

	msg := formatter.StyleRed.Render("error:") + " " + appErr.Message + "\n"
	if hint := kindHint(appErr.Kind); hint != "" {
		msg += formatter.Dim("hint: "+hint) + "\n"
	}
	return msg
}

func kindHint(kind app.ErrorKind) string {
	switch kind {
	case app.KindConfig:
		return "check config.toml or the NIPPO_* environment variables"
	case app.KindUnauthorized:
		return "set github.token, or github.app_id with github.private_key_path"
	case app.KindNotFound:
		return "check the owner/repo spelling and that the credential can see it"
	case app.KindUpstream:
		return "GitHub or the model provider failed; try again later"
	default:
		return ""
	}
}
