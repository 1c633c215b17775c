// Package channels normalizes EEG channel names to the standard 10-05
// electrode naming convention.
//
// Recordings in the EEGBCI dataset label channels with trailing periods
// and inconsistent casing ("Fp1.", "cz", "t7"). Standardize maps each raw
// name to its conventional form; Apply relabels a loaded recording in
// place through the Renamer interface.
package channels
