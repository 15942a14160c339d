package cmd

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dcmio"
	"github.com/spf13/cobra"
)

// fetch reads a DICOM file from a path, "-" for stdin or an http(s) URL
func fetch(ctx context.Context, cmd *cobra.Command) (*dcmio.File, error) {
	uri, _ := cmd.Flags().GetString("uri")
	if uri == "" && len(cmd.Flags().Args()) > 0 {
		uri = cmd.Flags().Arg(0)
	}
	uri = strings.TrimPrefix(uri, "file://")
	var in io.Reader
	switch {
	case uri == "":
		return nil, fmt.Errorf("file path is required. Use --uri flag or provide as argument")
	case uri == "-":
		in = os.Stdin
	case strings.HasPrefix(uri, "http"):
		insecure, _ := cmd.Flags().GetBool("insecure")
		cl := &http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download: %w", err)
		}
		defer resp.Body.Close()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			os.Stderr.Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			os.Stderr.Write(resDump)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download: %s", resp.Status)
		}
		in = resp.Body
	default:
		return dcmio.ReadFile(uri)
	}
	// the parser needs the size up front
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return dcmio.Read(bytes.NewReader(data), int64(len(data)))
}

// fetchFlags registers the flags fetch reads
func fetchFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("uri", "u", "", "DICOM file path, URL or - for stdin")
	pf.Bool("insecure", false, "skip TLS verification for https URIs")
	pf.BoolP("verbose", "v", false, "dump http request and response headers")
}

// NewDecodeCmd prints the attributes of a DICOM file
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "DICOM decode",
		Long:  "Prints the attributes of a DICOM file and the layout of its frames.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fetch(ctx, cmd)
			if f == nil {
				return err
			}
			if err != nil && !errors.Is(err, dcmio.ErrEncapsulated) && !errors.Is(err, dcmio.ErrNoPixelData) {
				return err
			}
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				fmt.Println(f.Dataset)
				for i, fr := range f.Frames {
					fmt.Printf("frame %d: %dx%dx%d %s\n", i, fr.Width(), fr.Height(), fr.Bands(), fr.Kind())
				}
				if err != nil {
					fmt.Println(err)
				}
			default:
				j, err := json.Marshal(f.Dataset)
				if err != nil {
					return err
				}
				os.Stdout.Write(j)
			}
			return nil
		},
	}
	fetchFlags(cmd)
	cmd.PersistentFlags().StringP("format", "f", "json", "output format (text|json)")
	return cmd
}
