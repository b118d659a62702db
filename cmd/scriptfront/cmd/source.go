package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
)

// readSource returns the source selected by the -e flag, a file argument
// or stdin. "-" names stdin explicitly.
func readSource(cmd *cobra.Command, args []string, expr string) (source, name string, err error) {
	if expr != "" {
		if len(args) > 0 {
			return "", "", sferror.New("use either -e or a file argument").
				WithCode(sferror.CodeInvalidInput)
		}
		return expr, "<expr>", nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", sferror.Wrap(err, "failed to read stdin").WithCode(sferror.CodeInvalidInput)
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		code := sferror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = sferror.CodeNotFound
		}
		return "", "", sferror.Wrap(err, "failed to read source").
			WithCode(code).
			WithDetail("path", args[0])
	}
	return string(data), args[0], nil
}
