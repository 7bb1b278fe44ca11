package bte

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ExportOmegaCSV writes the spectrum as CSV with one branch per column.
func ExportOmegaCSV(o *Omega, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(o.Branches); err != nil {
			return err
		}
		for _, row := range o.Frequencies {
			if err := w.Write(formatRow(row)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportKappaCSV writes the conductivity tensor series as CSV with a
// temperature column, the nine direction columns, and the iteration count.
func ExportKappaCSV(points []KappaPoint, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := append([]string{"T"}, Directions...)
		header = append(header, "iter")
		if err := w.Write(header); err != nil {
			return err
		}
		for _, p := range points {
			row := []string{formatFloat(p.T)}
			for _, v := range p.Tensor {
				row = append(row, formatFloat(v))
			}
			row = append(row, strconv.Itoa(p.Iter))
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportDOSCSV writes the phonon DOS as CSV.
func ExportDOSCSV(points []DOSPoint, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"omega_THz", "dos"}); err != nil {
			return err
		}
		for _, p := range points {
			if err := w.Write([]string{formatFloat(p.Omega), formatFloat(p.DOS)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportCvCSV writes the heat capacity series as CSV.
func ExportCvCSV(points []CvPoint, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"T", "cv"}); err != nil {
			return err
		}
		for _, p := range points {
			if err := w.Write([]string{formatFloat(p.T), formatFloat(p.Cv)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatRow(row []float64) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatFloat(v)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
