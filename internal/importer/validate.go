package importer

import (
	"fmt"
	"time"
)

// Validate checks a decoded file before anything is written.
// Returns a slice of all validation errors found.
func Validate(file *WorkTimeFile) []error {
	var errs []error

	if file.Version < 1 || file.Version > SchemaVersion {
		errs = append(errs, fmt.Errorf("version: unsupported value %d (expected 1..%d)", file.Version, SchemaVersion))
	}

	ids := make(map[string]int)
	recording := -1
	for i, rec := range file.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)

		if rec.ID != "" {
			if prev, dup := ids[rec.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (also entries[%d])", prefix, rec.ID, prev))
			} else {
				ids[rec.ID] = i
			}
		}

		start, startErr := time.Parse(time.RFC3339, rec.Start)
		switch {
		case rec.Start == "":
			errs = append(errs, fmt.Errorf("%s.start is required", prefix))
		case startErr != nil:
			errs = append(errs, fmt.Errorf("%s.start: invalid time %q (expected RFC3339)", prefix, rec.Start))
		}

		if rec.End == nil {
			if recording >= 0 {
				errs = append(errs, fmt.Errorf("%s.end: only one entry may be recording (also entries[%d])", prefix, recording))
			} else {
				recording = i
			}
			continue
		}
		end, err := time.Parse(time.RFC3339, *rec.End)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.end: invalid time %q (expected RFC3339)", prefix, *rec.End))
			continue
		}
		if startErr == nil && !end.After(start) {
			errs = append(errs, fmt.Errorf("%s.end %q must be after start %q", prefix, *rec.End, rec.Start))
		}
	}

	return errs
}
