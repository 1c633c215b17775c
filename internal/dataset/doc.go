// Package dataset describes the layout of the EEGBCI motor imagery
// dataset hosted on PhysioNet.
//
// The package handles three concerns:
//
//  1. Validating that a base URL matches the PhysioNet folder structure
//  2. Deriving the local cache directory that mirrors that structure
//  3. Mapping (subject, run) pairs to their relative file paths
//
// # Base URL Validation
//
// PhysioNet serves dataset files under a fixed folder structure,
// `.../files/<name>/<version>/`. ValidateBaseURL rejects anything else
// before any network or filesystem access happens:
//
//	parts, err := dataset.ValidateBaseURL("https://physionet.org/files/eegmmidb/1.0.0/")
//	if err != nil {
//	    log.Fatal(err) // base URL no longer matches PhysioNet's layout
//	}
//
// # File Naming
//
// Each recording is one EDF file named after its subject and run:
//
//	part, _ := dataset.FilePart(1, 4) // "S001/S001R04.edf"
package dataset
