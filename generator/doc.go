// Package generator writes the C# mirror of a schema for the Unity host.
//
// Render produces, in declaration order, one <Name>Authoring.cs per project
// component, state and prefab enumeration, followed by BridgeGenerated.cs
// which holds the CustomData and CustomState unions, their tag enums, the
// schema fingerprint and the create hook that collects a host entity's
// project components. RenderBuiltins produces InbuiltGenerated.cs for the
// host runtime package.
//
// Tags and layouts come from compiler.Compile, so the mirror and the
// embedded side always agree for the same model. Output is a pure function
// of the model and options; regenerating an unchanged schema yields
// byte-identical files.
//
// Generate renders first and only touches the output directory when every
// file rendered. It then deletes all *.cs files it is not about to rewrite
// and the .meta sidecars Unity left for them.
package generator
