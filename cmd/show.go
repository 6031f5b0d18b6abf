package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/store"
	"github.com/mlihgenel/clipeditor-cli/internal/timecode"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var (
	showLimit  int
	showJSON   bool
	showDelete bool
)

var showCmd = &cobra.Command{
	Use:   "show [video]",
	Short: "Kayıtlı düzenlemeleri göster",
	Long: `Video verilirse o videoya ait kayıtlı düzenlemeyi gösterir. Video
verilmezse son düzenlemeleri listeler.

Örnekler:
  clipeditor-cli show
  clipeditor-cli show klip_edited.mp4
  clipeditor-cli show klip_edited.mp4 --json
  clipeditor-cli show klip_edited.mp4 --delete`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil, true)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	if len(args) == 0 {
		if showDelete {
			return fmt.Errorf("--delete için video belirtilmeli")
		}
		recs, err := a.store.List(ctx, showLimit)
		if err != nil {
			return err
		}
		if showJSON {
			return writeJSON(recs)
		}
		if len(recs) == 0 {
			ui.PrintInfo("Kayıtlı düzenleme yok.")
			return nil
		}
		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, recordRow(r))
		}
		ui.PrintTable([]string{"Video", "Kırpma", "Döngü", "Durum", "Tarih"}, rows)
		return nil
	}

	asset, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	if showDelete {
		if err := a.store.Delete(ctx, asset); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("kayıtlı düzenleme yok: %s", args[0])
			}
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Düzenleme silindi: %s", args[0]))
		return nil
	}

	rec, err := a.store.Get(ctx, asset)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("kayıtlı düzenleme yok: %s", args[0])
	}
	if err != nil {
		return err
	}
	if showJSON {
		return writeJSON(rec)
	}
	ui.PrintTable([]string{"Alan", "Değer"}, [][]string{
		{"Kayıt", rec.ID},
		{"Video", rec.Asset},
		{"Kaynak", rec.Source},
		{"Süre", timecode.Human(rec.Duration)},
		{"Kırpma", fmt.Sprintf("%s → %s", timecode.Human(rec.Payload.TrimStart), timecode.Human(rec.Payload.TrimEnd))},
		{"Döngü", loopText(rec.Payload)},
		{"Durum", editedText(rec.Edited)},
		{"Tarih", rec.CreatedAt.Local().Format("2006-01-02 15:04:05")},
	})
	return nil
}

func recordRow(r edit.Record) []string {
	return []string{
		filepath.Base(r.Asset),
		fmt.Sprintf("%s → %s", timecode.Human(r.Payload.TrimStart), timecode.Human(r.Payload.TrimEnd)),
		loopText(r.Payload),
		editedText(r.Edited),
		r.CreatedAt.Local().Format("2006-01-02 15:04"),
	}
}

func editedText(edited bool) string {
	if edited {
		return "kırpıldı"
	}
	return "değişmedi"
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Listelenecek en fazla kayıt")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "JSON çıktı")
	showCmd.Flags().BoolVar(&showDelete, "delete", false, "Videonun kayıtlı düzenlemesini sil")
	rootCmd.AddCommand(showCmd)
}
