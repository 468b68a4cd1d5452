package attributes

import "github.com/aarsakian/ntfsforensics/errs"

var errShortHeader = errs.New(errs.BadRunList, "attribute header truncated")
