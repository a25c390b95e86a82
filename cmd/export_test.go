package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExportData() *ExportData {
	return &ExportData{
		ExportDate: "2024-01-02 03:04:05",
		Network:    "testnet",
		Wallets: []ExportWallet{
			{
				Chain:      "Koii K2",
				Symbol:     "KOII",
				Network:    "testnet",
				Address:    "9cGCJvVacp5V6xjeshprS3KDN3e5VwEUszHmxxaZuHmJ",
				Balance:    "1.5",
				PrivateKey: "[1,2,3]",
			},
			{
				Chain:   "Ethereum",
				Symbol:  "ETH",
				Network: "sepolia",
				Address: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
				Balance: "unavailable",
			},
		},
	}
}

func setExportFlags(t *testing.T, json, csv, txt bool) {
	t.Helper()
	oldJSON, oldCSV, oldTXT := jsonFlag, csvFlag, txtFlag
	jsonFlag, csvFlag, txtFlag = json, csv, txt
	t.Cleanup(func() { jsonFlag, csvFlag, txtFlag = oldJSON, oldCSV, oldTXT })
}

func TestWriteExportFiles(t *testing.T) {
	tests := []struct {
		name       string
		json       bool
		csv        bool
		txt        bool
		extensions []string
	}{
		{"json", true, false, false, []string{".json"}},
		{"csv and txt", false, true, true, []string{".csv", ".txt"}},
		{"all", true, true, true, []string{".json", ".csv", ".txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setExportFlags(t, tt.json, tt.csv, tt.txt)
			dir := t.TempDir()

			files, err := writeExportFiles(testExportData(), dir)
			require.NoError(t, err)
			require.Len(t, files, len(tt.extensions))

			for i, file := range files {
				assert.Equal(t, tt.extensions[i], filepath.Ext(file))
				assert.True(t, strings.HasPrefix(filepath.Base(file), "ktools_testnet_"))

				info, err := os.Stat(file)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			}
		})
	}
}

func TestWriteJSONExport(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, writeJSONExport(testExportData(), filename))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	var got ExportData
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *testExportData(), got)
	assert.NotContains(t, string(data), `"private_key": ""`)
}

func TestWriteCSVExport(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, writeCSVExport(testExportData(), filename))

	file, err := os.Open(filename)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Address", records[0][3])
	assert.Equal(t, []string{"Koii K2", "KOII", "testnet", "9cGCJvVacp5V6xjeshprS3KDN3e5VwEUszHmxxaZuHmJ", "1.5", "[1,2,3]"}, records[1])
	assert.Equal(t, "", records[2][5])
}

func TestWriteTXTExport(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "export.txt")
	require.NoError(t, writeTXTExport(testExportData(), filename))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Network: TESTNET")
	assert.Contains(t, content, "Koii K2 (KOII) on testnet")
	assert.Contains(t, content, "Private Key: [1,2,3]")
	assert.Equal(t, 1, strings.Count(content, "Private Key:"))
}
