package tyburn

import "github.com/Norgate-AV/tyburn/pkg/widget"

// WindowWrapper is the older name for WindowControl. Both behave the same.
type WindowWrapper = WindowControl

// NewWindowWrapper is New under the older name.
func NewWindowWrapper(tk *widget.Toolkit, windowName string, opts ...Option) *WindowWrapper {
	return New(tk, windowName, opts...)
}
