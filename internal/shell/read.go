package shell

import (
	"context"
	"fmt"
	"strconv"
)

func ReadInt(ctx context.Context, exec Executor, path string) (int64, error) {
	raw, err := ReadFile(ctx, exec, path)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	return v, nil
}

// ReadFloat accepts integer and decimal readings.
func ReadFloat(ctx context.Context, exec Executor, path string) (float64, error) {
	raw, err := ReadFile(ctx, exec, path)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	return v, nil
}
